package tinkoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AccessLevel is the backend's coarse authorization tier. It only grows as
// authentication factors are satisfied.
type AccessLevel string

// Access levels, from least to most trusted.
const (
	AccessLevelAnonymous AccessLevel = "ANONYMOUS"
	AccessLevelCandidate AccessLevel = "CANDIDATE"
	AccessLevelClient    AccessLevel = "CLIENT"
)

// UnmarshalJSON rejects access levels outside the closed set.
func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch AccessLevel(s) {
	case AccessLevelAnonymous, AccessLevelCandidate, AccessLevelClient:
		*l = AccessLevel(s)
		return nil
	default:
		return fmt.Errorf("unknown access level %q", s)
	}
}

// Session identifies an established session. ID must be forwarded on every
// subsequent call; TTL is informational only, the client never auto-refreshes.
type Session struct {
	ID  string `json:"sessionid"`
	TTL int    `json:"ttl"`
}

// UnmarshalJSON requires both sessionid and ttl to be present.
func (s *Session) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID  *string `json:"sessionid"`
		TTL *int    `json:"ttl"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ID == nil {
		return errors.New("session: missing sessionid")
	}
	if wire.TTL == nil {
		return errors.New("session: missing ttl")
	}
	s.ID = *wire.ID
	s.TTL = *wire.TTL
	return nil
}

// UserInfo describes the authenticated (or not) caller. UserID may be empty:
// some endpoints omit it even on success.
type UserInfo struct {
	AccessLevel AccessLevel `json:"accessLevel"`
	UserID      string      `json:"userId"`
}

// UnmarshalJSON requires accessLevel; userId defaults to empty.
func (u *UserInfo) UnmarshalJSON(data []byte) error {
	var wire struct {
		AccessLevel *AccessLevel `json:"accessLevel"`
		UserID      string       `json:"userId"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.AccessLevel == nil {
		return errors.New("user info: missing accessLevel")
	}
	u.AccessLevel = *wire.AccessLevel
	u.UserID = wire.UserID
	return nil
}

// Currency is the closed set of currencies the backend emits. On the wire a
// currency is an object carrying redundant numeric codes next to a name; only
// the name survives decoding.
type Currency string

// Currencies observed in the wild.
const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyBYN Currency = "BYN"
)

// UnmarshalJSON flattens the {"code": ..., "name": ..., "strCode": ...}
// wrapper and rejects names outside the closed set.
func (c *Currency) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Name == nil {
		return errors.New("currency: missing name")
	}
	switch Currency(*wire.Name) {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR, CurrencyBYN:
		*c = Currency(*wire.Name)
		return nil
	default:
		return fmt.Errorf("unknown currency %q", *wire.Name)
	}
}

// MarshalJSON restores the wrapper shape the backend uses.
func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
	}{Name: string(c)})
}

// MoneyAmount is a value in a specific currency.
type MoneyAmount struct {
	Currency Currency `json:"currency"`
	Value    float64  `json:"value"`
}

// UnmarshalJSON requires both currency and value to be present.
func (m *MoneyAmount) UnmarshalJSON(data []byte) error {
	var wire struct {
		Currency *Currency `json:"currency"`
		Value    *float64  `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Currency == nil {
		return errors.New("money amount: missing currency")
	}
	if wire.Value == nil {
		return errors.New("money amount: missing value")
	}
	m.Currency = *wire.Currency
	m.Value = *wire.Value
	return nil
}

// Account is a single account as returned by the flat account listing. ID is
// the internal identifier required for operation listing; ExternalNumber is
// the human-facing account number.
type Account struct {
	ID             string      `json:"id"`
	ExternalNumber string      `json:"externalAccountNumber"`
	Group          string      `json:"accountGroup"`
	Name           string      `json:"name"`
	MoneyAmount    MoneyAmount `json:"moneyAmount"`
}

// UnmarshalJSON requires every account field to be present.
func (a *Account) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID             *string      `json:"id"`
		ExternalNumber *string      `json:"externalAccountNumber"`
		Group          *string      `json:"accountGroup"`
		Name           *string      `json:"name"`
		MoneyAmount    *MoneyAmount `json:"moneyAmount"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	for field, ok := range map[string]bool{
		"id":                    wire.ID != nil,
		"externalAccountNumber": wire.ExternalNumber != nil,
		"accountGroup":          wire.Group != nil,
		"name":                  wire.Name != nil,
		"moneyAmount":           wire.MoneyAmount != nil,
	} {
		if !ok {
			return fmt.Errorf("account: missing %s", field)
		}
	}
	a.ID = *wire.ID
	a.ExternalNumber = *wire.ExternalNumber
	a.Group = *wire.Group
	a.Name = *wire.Name
	a.MoneyAmount = *wire.MoneyAmount
	return nil
}

// OperationType is the ledger direction of an operation.
type OperationType string

// Operation types.
const (
	OperationCredit OperationType = "Credit"
	OperationDebit  OperationType = "Debit"
)

// UnmarshalJSON rejects operation types outside the closed set.
func (t *OperationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch OperationType(s) {
	case OperationCredit, OperationDebit:
		*t = OperationType(s)
		return nil
	default:
		return fmt.Errorf("unknown operation type %q", s)
	}
}

// OperationGroup is the backend's coarse grouping of an operation.
type OperationGroup string

// Operation groups.
const (
	GroupPay        OperationGroup = "PAY"
	GroupIncome     OperationGroup = "INCOME"
	GroupTransfer   OperationGroup = "TRANSFER"
	GroupCash       OperationGroup = "CASH"
	GroupCorrection OperationGroup = "CORRECTION"
	GroupCharge     OperationGroup = "CHARGE"
	GroupInternal   OperationGroup = "INTERNAL"
)

// UnmarshalJSON rejects operation groups outside the closed set.
func (g *OperationGroup) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch OperationGroup(s) {
	case GroupPay, GroupIncome, GroupTransfer, GroupCash,
		GroupCorrection, GroupCharge, GroupInternal:
		*g = OperationGroup(s)
		return nil
	default:
		return fmt.Errorf("unknown operation group %q", s)
	}
}

// nameWrapper is the {"name": ...} object the backend wraps plain strings in.
// Decode-only plumbing, never exposed.
type nameWrapper struct {
	Name string `json:"name"`
}

// millisWrapper is the {"milliseconds": ...} object the backend wraps epoch
// timestamps in.
type millisWrapper struct {
	Milliseconds int64 `json:"milliseconds"`
}

// Operation is a single ledger transaction. Subcategory, Merchant and
// Subgroup are nil when the backend omits them; a present-but-empty name
// decodes to a pointer to the empty string, which is distinct from absence.
type Operation struct {
	ID               string
	Type             OperationType
	Description      string
	Amount           MoneyAmount
	AccountAmount    MoneyAmount
	Time             time.Time
	SpendingCategory string
	MCC              int
	Category         string
	Subcategory      *string
	Account          string
	Merchant         *string
	Group            OperationGroup
	Subgroup         *string
}

// UnmarshalJSON flattens the wire shape: {name} wrappers become plain
// strings, {milliseconds} becomes a UTC time, everything the data model does
// not cover is dropped.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID               *string         `json:"id"`
		Type             *OperationType  `json:"type"`
		Description      *string         `json:"description"`
		Amount           *MoneyAmount    `json:"amount"`
		AccountAmount    *MoneyAmount    `json:"accountAmount"`
		Time             *millisWrapper  `json:"operationTime"`
		SpendingCategory *nameWrapper    `json:"spendingCategory"`
		MCC              *int            `json:"mcc"`
		Category         *nameWrapper    `json:"category"`
		Subcategory      *string         `json:"subcategory"`
		Account          *string         `json:"account"`
		Merchant         *nameWrapper    `json:"merchant"`
		Group            *OperationGroup `json:"group"`
		Subgroup         *nameWrapper    `json:"subgroup"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	for field, ok := range map[string]bool{
		"id":               wire.ID != nil,
		"type":             wire.Type != nil,
		"description":      wire.Description != nil,
		"amount":           wire.Amount != nil,
		"accountAmount":    wire.AccountAmount != nil,
		"operationTime":    wire.Time != nil,
		"spendingCategory": wire.SpendingCategory != nil,
		"mcc":              wire.MCC != nil,
		"category":         wire.Category != nil,
		"account":          wire.Account != nil,
		"group":            wire.Group != nil,
	} {
		if !ok {
			return fmt.Errorf("operation: missing %s", field)
		}
	}
	o.ID = *wire.ID
	o.Type = *wire.Type
	o.Description = *wire.Description
	o.Amount = *wire.Amount
	o.AccountAmount = *wire.AccountAmount
	o.Time = time.UnixMilli(wire.Time.Milliseconds).UTC()
	o.SpendingCategory = wire.SpendingCategory.Name
	o.MCC = *wire.MCC
	o.Category = wire.Category.Name
	o.Subcategory = wire.Subcategory
	o.Account = *wire.Account
	o.Merchant = unwrapName(wire.Merchant)
	o.Group = *wire.Group
	o.Subgroup = unwrapName(wire.Subgroup)
	return nil
}

// MarshalJSON restores the wire shape for every modeled field, so a decoded
// operation re-marshals losslessly.
func (o Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               string         `json:"id"`
		Type             OperationType  `json:"type"`
		Description      string         `json:"description"`
		Amount           MoneyAmount    `json:"amount"`
		AccountAmount    MoneyAmount    `json:"accountAmount"`
		Time             millisWrapper  `json:"operationTime"`
		SpendingCategory nameWrapper    `json:"spendingCategory"`
		MCC              int            `json:"mcc"`
		Category         nameWrapper    `json:"category"`
		Subcategory      *string        `json:"subcategory,omitempty"`
		Account          string         `json:"account"`
		Merchant         *nameWrapper   `json:"merchant,omitempty"`
		Group            OperationGroup `json:"group"`
		Subgroup         *nameWrapper   `json:"subgroup,omitempty"`
	}{
		ID:               o.ID,
		Type:             o.Type,
		Description:      o.Description,
		Amount:           o.Amount,
		AccountAmount:    o.AccountAmount,
		Time:             millisWrapper{Milliseconds: o.Time.UnixMilli()},
		SpendingCategory: nameWrapper{Name: o.SpendingCategory},
		MCC:              o.MCC,
		Category:         nameWrapper{Name: o.Category},
		Subcategory:      o.Subcategory,
		Account:          o.Account,
		Merchant:         wrapName(o.Merchant),
		Group:            o.Group,
		Subgroup:         wrapName(o.Subgroup),
	})
}

func unwrapName(w *nameWrapper) *string {
	if w == nil {
		return nil
	}
	name := w.Name
	return &name
}

func wrapName(s *string) *nameWrapper {
	if s == nil {
		return nil
	}
	return &nameWrapper{Name: *s}
}
