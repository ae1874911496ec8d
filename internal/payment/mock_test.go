package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayCharge(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     Request
		success bool
		code    string
		status  string
	}{
		{"success card", Request{Amount: 4000, Method: MethodCreditCard, CardNumber: TestCardSuccess}, true, "", StatusPaid},
		{"card with spaces", Request{Amount: 4000, Method: MethodCreditCard, CardNumber: "4242 4242 4242 4242"}, true, "", StatusPaid},
		{"any other card", Request{Amount: 4000, Method: MethodCreditCard, CardNumber: "5555555555554444"}, true, "", StatusPaid},
		{"insufficient funds", Request{Amount: 4000, Method: MethodCreditCard, CardNumber: TestCardInsufficientFunds}, false, CodeInsufficientFunds, ""},
		{"declined", Request{Amount: 4000, Method: MethodCreditCard, CardNumber: TestCardDeclined}, false, CodeCardDeclined, ""},
		{"too short", Request{Amount: 4000, Method: MethodCreditCard, CardNumber: "4242"}, false, CodeInvalidCard, ""},
		{"missing card", Request{Amount: 4000, Method: MethodCreditCard}, false, CodeInvalidCard, ""},
		{"paypal", Request{Amount: 4000, Method: MethodPayPal}, true, "", StatusPaid},
		{"bank transfer", Request{Amount: 4000, Method: MethodBankTransfer}, true, "", StatusPending},
		{"zero amount", Request{Amount: 0, Method: MethodPayPal}, false, CodeProcessingError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMockGateway()
			res, err := g.Charge(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.code, res.Code)
			if tt.success {
				assert.NotEmpty(t, res.Reference)
				assert.Equal(t, tt.status, res.Status)
				assert.Equal(t, 1, g.ChargeCount())
			} else {
				assert.Empty(t, res.Reference)
				assert.NotEmpty(t, res.Message)
				assert.Equal(t, 0, g.ChargeCount())
			}
		})
	}
}

func TestMockGatewayRefund(t *testing.T) {
	ctx := context.Background()
	g := NewMockGateway()

	res, err := g.Charge(ctx, Request{Amount: 100, Method: MethodPayPal})
	require.NoError(t, err)

	require.NoError(t, g.Refund(ctx, res.Reference))
	assert.True(t, g.Refunded(res.Reference))
	assert.ErrorIs(t, g.Refund(ctx, "PAY-UNKNOWN"), ErrUnknownReference)
}
