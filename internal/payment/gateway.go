// Package payment is the boundary to the card/wallet processor used at checkout.
package payment

import (
	"context"
	"errors"
)

type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
)

// Failure reason codes surfaced to the shopper.
const (
	CodeInsufficientFunds = "insufficient_funds"
	CodeCardDeclined      = "card_declined"
	CodeInvalidCard       = "invalid_card"
	CodeProcessingError   = "processing_error"
)

// Settlement states reported on success.
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

var ErrUnknownReference = errors.New("unknown payment reference")

type Request struct {
	Amount      int64
	Currency    string
	Method      Method
	CardNumber  string
	CardExpiry  string
	CardCVC     string
	Description string
}

// Result is a processed charge. Failed charges carry Code and Message and no Reference.
type Result struct {
	Success   bool
	Reference string
	Status    string
	Code      string
	Message   string
}

type Gateway interface {
	Charge(ctx context.Context, req Request) (Result, error)
	Refund(ctx context.Context, reference string) error
}
