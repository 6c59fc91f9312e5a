package tinkoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ResultCode is the outcome discriminator present on every response.
type ResultCode string

// Known result codes. Anything else fails decoding.
const (
	ResultOK                  ResultCode = "OK"
	ResultWaitingConfirmation ResultCode = "WAITING_CONFIRMATION"
)

// UnmarshalJSON rejects result codes outside the closed set.
func (c *ResultCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch ResultCode(s) {
	case ResultOK, ResultWaitingConfirmation:
		*c = ResultCode(s)
		return nil
	default:
		return fmt.Errorf("unknown result code %q", s)
	}
}

// Envelope wraps every protocol response. Payload is set only when ResultCode
// is ResultOK; Confirmations, InitialOperation and OperationTicket are set
// only when it is ResultWaitingConfirmation. Branch on ResultCode before
// touching either side.
type Envelope[T any] struct {
	Payload          *T         `json:"payload,omitempty"`
	ResultCode       ResultCode `json:"resultCode"`
	InitialOperation string     `json:"initialOperation,omitempty"`
	OperationTicket  string     `json:"operationTicket,omitempty"`
	Confirmations    []string   `json:"confirmations,omitempty"`
}

// Nothing is the payload of operations whose response carries no data worth
// modeling. Whatever the backend puts next to the result code is discarded.
type Nothing struct{}

func decodeEnvelope[T any](path string, r io.Reader) (*Envelope[T], error) {
	var env Envelope[T]
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if env.ResultCode == "" {
		return nil, &DecodeError{Path: path, Err: errors.New("missing resultCode")}
	}
	return &env, nil
}
