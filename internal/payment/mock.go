package payment

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

// Test card numbers recognised by MockGateway.
const (
	TestCardSuccess           = "4242424242424242"
	TestCardInsufficientFunds = "4000000000009995"
	TestCardDeclined          = "4000000000000002"
)

const minCardDigits = 13

// MockGateway approves everything except the designated failure cards.
// Bank transfers settle later and come back as pending.
type MockGateway struct {
	mu       sync.Mutex
	charges  map[string]int64
	refunded map[string]bool
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		charges:  make(map[string]int64),
		refunded: make(map[string]bool),
	}
}

func (g *MockGateway) Charge(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Amount <= 0 {
		return failure(CodeProcessingError, "The payment amount must be greater than zero"), nil
	}

	status := StatusPaid
	switch req.Method {
	case MethodCreditCard:
		number := digitsOnly(req.CardNumber)
		switch {
		case len(number) < minCardDigits:
			return failure(CodeInvalidCard, "The card number is invalid"), nil
		case number == TestCardInsufficientFunds:
			return failure(CodeInsufficientFunds, "The card has insufficient funds"), nil
		case number == TestCardDeclined:
			return failure(CodeCardDeclined, "The card was declined"), nil
		}
	case MethodBankTransfer:
		status = StatusPending
	}

	ref := "PAY-" + strings.ToUpper(uuid.NewString())
	g.mu.Lock()
	g.charges[ref] = req.Amount
	g.mu.Unlock()

	return Result{Success: true, Reference: ref, Status: status}, nil
}

func (g *MockGateway) Refund(ctx context.Context, reference string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.charges[reference]; !ok {
		return ErrUnknownReference
	}
	g.refunded[reference] = true
	return nil
}

// Refunded reports whether a charge was voided.
func (g *MockGateway) Refunded(reference string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refunded[reference]
}

// ChargeCount is the number of successful charges taken.
func (g *MockGateway) ChargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

// References lists every charge reference taken so far.
func (g *MockGateway) References() map[string]bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	refs := make(map[string]bool, len(g.charges))
	for ref := range g.charges {
		refs[ref] = g.refunded[ref]
	}
	return refs
}

func failure(code, msg string) Result {
	return Result{Success: false, Code: code, Message: msg}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
