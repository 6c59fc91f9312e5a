package tinkoff

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const operationWithMerchant = `{
	"id": "1234567890",
	"type": "Credit",
	"authMessage": "Операция утверждена.",
	"description": "Яндекс.Еда",
	"amount": {
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"value": 1234.50
	},
	"accountAmount": {
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"value": 1234.50
	},
	"operationTime": {"milliseconds": 1613639239000},
	"spendingCategory": {"id": "24", "name": "Рестораны", "icon": "32", "parentId": "3"},
	"mcc": 5812,
	"category": {"id": "32", "name": "Рестораны"},
	"account": "100",
	"merchant": {"name": "Яндекс.Еда", "region": {"country": "RUS", "city": "MOSKVA"}},
	"card": "123456789",
	"group": "PAY",
	"cardNumber": "553612******3456"
}`

const operationWithEmptySubgroup = `{
	"payment": {
		"bankAccountId": "100",
		"paymentId": "100500",
		"providerGroupId": "Интернет",
		"paymentType": "Payment",
		"feeAmount": {
			"currency": {"code": 643, "name": "RUB", "strCode": "643"},
			"value": 0.0
		},
		"providerId": "rostelekom-prosto",
		"fieldsValues": {"account": "123654"},
		"cardNumber": "553612******3456"
	},
	"id": "1234567891",
	"type": "Debit",
	"subgroup": {"id": "A1", "name": ""},
	"description": "Онлайм",
	"amount": {
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"value": 100.0
	},
	"accountAmount": {
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"value": 100.0
	},
	"operationTime": {"milliseconds": 1613168606000},
	"subcategory": "Онлайм",
	"spendingCategory": {"id": "37", "name": "Интернет", "icon": "40", "parentId": "5"},
	"mcc": 2,
	"category": {"id": "40", "name": "Интернет, voip/иб"},
	"account": "100",
	"card": "123456789",
	"group": "PAY",
	"cardNumber": "553612******3456"
}`

const operationIncome = `{
	"id": "1234567892",
	"message": "Перевод денежных средств",
	"type": "Credit",
	"subgroup": {"id": "C10", "name": "Пополнение по номеру телефона"},
	"description": "Иванов И.",
	"senderDetails": "Иванов И.",
	"amount": {
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"value": 9999.0
	},
	"accountAmount": {
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"value": 9999.0
	},
	"operationTime": {"milliseconds": 1612978599000},
	"subcategory": "Иванов И.",
	"spendingCategory": {"id": "70", "name": "Пополнения", "icon": "33"},
	"mcc": 0,
	"category": {"id": "33", "name": "Другое"},
	"account": "100",
	"card": "123456789",
	"group": "INCOME",
	"cardNumber": "553612******3456"
}`

func strPtr(s string) *string {
	return &s
}

func TestOperation_Decode(t *testing.T) {
	rub := func(value float64) MoneyAmount {
		return MoneyAmount{Currency: CurrencyRUB, Value: value}
	}

	tests := []struct {
		name     string
		body     string
		expected Operation
	}{
		{
			name: "merchant present, subgroup absent",
			body: operationWithMerchant,
			expected: Operation{
				ID:               "1234567890",
				Type:             OperationCredit,
				Description:      "Яндекс.Еда",
				Amount:           rub(1234.5),
				AccountAmount:    rub(1234.5),
				Time:             time.UnixMilli(1613639239000).UTC(),
				SpendingCategory: "Рестораны",
				MCC:              5812,
				Category:         "Рестораны",
				Account:          "100",
				Merchant:         strPtr("Яндекс.Еда"),
				Group:            GroupPay,
			},
		},
		{
			name: "empty subgroup name is a present value",
			body: operationWithEmptySubgroup,
			expected: Operation{
				ID:               "1234567891",
				Type:             OperationDebit,
				Description:      "Онлайм",
				Amount:           rub(100),
				AccountAmount:    rub(100),
				Time:             time.UnixMilli(1613168606000).UTC(),
				SpendingCategory: "Интернет",
				MCC:              2,
				Category:         "Интернет, voip/иб",
				Subcategory:      strPtr("Онлайм"),
				Account:          "100",
				Group:            GroupPay,
				Subgroup:         strPtr(""),
			},
		},
		{
			name: "income with subgroup",
			body: operationIncome,
			expected: Operation{
				ID:               "1234567892",
				Type:             OperationCredit,
				Description:      "Иванов И.",
				Amount:           rub(9999),
				AccountAmount:    rub(9999),
				Time:             time.UnixMilli(1612978599000).UTC(),
				SpendingCategory: "Пополнения",
				MCC:              0,
				Category:         "Другое",
				Subcategory:      strPtr("Иванов И."),
				Account:          "100",
				Group:            GroupIncome,
				Subgroup:         strPtr("Пополнение по номеру телефона"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var op Operation
			require.NoError(t, json.Unmarshal([]byte(tt.body), &op))
			assert.Equal(t, tt.expected, op)
		})
	}
}

func TestOperation_DecodeRejectsMissingRequiredFields(t *testing.T) {
	required := []string{
		"id", "type", "description", "amount", "accountAmount",
		"operationTime", "spendingCategory", "mcc", "category", "account", "group",
	}
	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			var full map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(operationWithMerchant), &full))
			delete(full, field)
			body, err := json.Marshal(full)
			require.NoError(t, err)

			var op Operation
			err = json.Unmarshal(body, &op)
			require.Error(t, err)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestOperation_RoundTrip(t *testing.T) {
	for _, body := range []string{operationWithMerchant, operationWithEmptySubgroup, operationIncome} {
		var first Operation
		require.NoError(t, json.Unmarshal([]byte(body), &first))

		encoded, err := json.Marshal(first)
		require.NoError(t, err)

		var second Operation
		require.NoError(t, json.Unmarshal(encoded, &second))
		assert.Equal(t, first, second)
	}
}

func TestCurrency_Decode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Currency
		wantErr  bool
	}{
		{
			name:     "rub with redundant codes",
			body:     `{"code": 643, "name": "RUB", "strCode": "643"}`,
			expected: CurrencyRUB,
		},
		{
			name:     "usd",
			body:     `{"name": "USD"}`,
			expected: CurrencyUSD,
		},
		{
			name:    "unknown currency fails",
			body:    `{"name": "GBP"}`,
			wantErr: true,
		},
		{
			name:    "missing name fails",
			body:    `{"code": 643}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Currency
			err := json.Unmarshal([]byte(tt.body), &c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestCurrency_RoundTrip(t *testing.T) {
	for _, c := range []Currency{CurrencyRUB, CurrencyUSD, CurrencyEUR, CurrencyBYN} {
		encoded, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "`+string(c)+`"}`, string(encoded))

		var decoded Currency
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, c, decoded)
	}
}

func TestUserInfo_Decode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected UserInfo
		wantErr  bool
	}{
		{
			name:     "full info with extras ignored",
			body:     `{"accessLevel": "CANDIDATE", "firstName": "Cool guy", "hasPassword": true, "userId": "user-id-example"}`,
			expected: UserInfo{AccessLevel: AccessLevelCandidate, UserID: "user-id-example"},
		},
		{
			name:     "missing userId defaults to empty",
			body:     `{"accessLevel": "CLIENT", "ssoId": "sso-id-example"}`,
			expected: UserInfo{AccessLevel: AccessLevelClient},
		},
		{
			name:    "missing accessLevel fails",
			body:    `{"userId": "user-id-example"}`,
			wantErr: true,
		},
		{
			name:    "unknown accessLevel fails",
			body:    `{"accessLevel": "SUPERUSER"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var info UserInfo
			err := json.Unmarshal([]byte(tt.body), &info)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, info)
		})
	}
}

func TestSession_Decode(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"sessionid": "session-id-example", "ttl": 9994}`), &s))
	assert.Equal(t, Session{ID: "session-id-example", TTL: 9994}, s)

	assert.Error(t, json.Unmarshal([]byte(`{"ttl": 9994}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"sessionid": "session-id-example"}`), &s))
}

func TestAccount_Decode(t *testing.T) {
	body := `{
		"externalAccountNumber": "100000",
		"accountGroup": "Дебетовые карты",
		"moneyAmount": {"currency": {"code": 643, "name": "RUB", "strCode": "643"}, "value": 1111.11},
		"currency": {"code": 643, "name": "RUB", "strCode": "643"},
		"name": "Счет Tinkoff Black BE",
		"id": "100"
	}`

	var a Account
	require.NoError(t, json.Unmarshal([]byte(body), &a))
	assert.Equal(t, Account{
		ID:             "100",
		ExternalNumber: "100000",
		Group:          "Дебетовые карты",
		Name:           "Счет Tinkoff Black BE",
		MoneyAmount:    MoneyAmount{Currency: CurrencyRUB, Value: 1111.11},
	}, a)

	var missing Account
	err := json.Unmarshal([]byte(`{"id": "100"}`), &missing)
	require.Error(t, err)
}

func TestAccount_RoundTrip(t *testing.T) {
	first := Account{
		ID:             "200",
		ExternalNumber: "200000",
		Group:          "Дебетовые карты",
		Name:           "Счет USD Tinkoff Black",
		MoneyAmount:    MoneyAmount{Currency: CurrencyUSD, Value: 22222.2},
	}

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	var second Account
	require.NoError(t, json.Unmarshal(encoded, &second))
	assert.Equal(t, first, second)
}

func TestResultCode_Decode(t *testing.T) {
	var code ResultCode
	require.NoError(t, json.Unmarshal([]byte(`"OK"`), &code))
	assert.Equal(t, ResultOK, code)

	require.NoError(t, json.Unmarshal([]byte(`"WAITING_CONFIRMATION"`), &code))
	assert.Equal(t, ResultWaitingConfirmation, code)

	err := json.Unmarshal([]byte(`"WEIRD"`), &code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown result code")
}

func TestOperationEnums_RejectUnknownVariants(t *testing.T) {
	var opType OperationType
	assert.Error(t, json.Unmarshal([]byte(`"Refund"`), &opType))

	var group OperationGroup
	assert.Error(t, json.Unmarshal([]byte(`"LOTTERY"`), &group))

	var level AccessLevel
	assert.Error(t, json.Unmarshal([]byte(`"ROOT"`), &level))
}
