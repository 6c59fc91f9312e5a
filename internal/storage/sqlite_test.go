package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func sampleOperation(id string) tinkoff.Operation {
	merchant := "Яндекс.Еда"
	return tinkoff.Operation{
		ID:          id,
		Type:        tinkoff.OperationCredit,
		Description: "Яндекс.Еда",
		Amount: tinkoff.MoneyAmount{
			Currency: tinkoff.CurrencyRUB,
			Value:    1234.5,
		},
		AccountAmount: tinkoff.MoneyAmount{
			Currency: tinkoff.CurrencyRUB,
			Value:    1234.5,
		},
		Time:             time.UnixMilli(1613639239000).UTC(),
		SpendingCategory: "Рестораны",
		MCC:              5812,
		Category:         "Рестораны",
		Account:          "100",
		Merchant:         &merchant,
		Group:            tinkoff.GroupPay,
	}
}

func TestStore_SaveOperations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.SaveOperations(ctx, []tinkoff.Operation{
		sampleOperation("op-1"),
		sampleOperation("op-2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	count, err := store.CountOperations(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_SaveOperationsIgnoresDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveOperations(ctx, []tinkoff.Operation{sampleOperation("op-1")})
	require.NoError(t, err)

	inserted, err := store.SaveOperations(ctx, []tinkoff.Operation{
		sampleOperation("op-1"),
		sampleOperation("op-3"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := store.CountOperations(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_SaveOperationsPreservesAbsentOptionalFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	op := sampleOperation("op-1")
	op.Merchant = nil
	empty := ""
	op.Subgroup = &empty

	_, err := store.SaveOperations(ctx, []tinkoff.Operation{op})
	require.NoError(t, err)

	var merchant, subgroup *string
	err = store.db.QueryRowContext(ctx,
		"SELECT merchant, subgroup FROM operations WHERE id = ?", "op-1",
	).Scan(&merchant, &subgroup)
	require.NoError(t, err)

	assert.Nil(t, merchant)
	require.NotNil(t, subgroup)
	assert.Equal(t, "", *subgroup)
}

func TestStore_SaveAccountsUpsertsBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := tinkoff.Account{
		ID:             "100",
		ExternalNumber: "100000",
		Group:          "Дебетовые карты",
		Name:           "Счет Tinkoff Black BE",
		MoneyAmount:    tinkoff.MoneyAmount{Currency: tinkoff.CurrencyRUB, Value: 1111.11},
	}
	require.NoError(t, store.SaveAccounts(ctx, []tinkoff.Account{account}))

	account.MoneyAmount.Value = 2222.22
	require.NoError(t, store.SaveAccounts(ctx, []tinkoff.Account{account}))

	var count int
	var balance float64
	require.NoError(t, store.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(balance) FROM accounts").Scan(&count, &balance))

	assert.Equal(t, 1, count)
	assert.InDelta(t, 2222.22, balance, 0.001)
}

func TestNewStore_RejectsEmptyPath(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}
