package payments_test

import (
	"testing"

	"github.com/aryanwebd35/food-factory/payments"
	"github.com/aryanwebd35/food-factory/payments/paymenttest"
	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentLinkSignature(t *testing.T) {
	proof := payments.PaymentProof{
		PaymentLinkID: "plink_1",
		ReferenceID:   "665f1c2a9b1e8a3d4c5b6a79",
		Status:        payments.PaymentLinkPaid,
		PaymentID:     "pay_1",
	}
	proof.Signature = paymenttest.Sign("secret", proof)

	assert.True(t, proof.Present())
	assert.True(t, proof.Paid())
	assert.True(t, payments.VerifyPaymentLinkSignature("secret", proof))
	assert.False(t, payments.VerifyPaymentLinkSignature("other", proof))
	assert.False(t, payments.VerifyPaymentLinkSignature("", proof))

	tampered := proof
	tampered.Status = "cancelled"
	assert.False(t, payments.VerifyPaymentLinkSignature("secret", tampered))
}
