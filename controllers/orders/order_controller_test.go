package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRequestSuccessFlag(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"orderId":"a","success":true}`, true},
		{`{"orderId":"a","success":false}`, false},
		{`{"orderId":"a","success":"true"}`, true},
		{`{"orderId":"a","success":"false"}`, false},
		{`{"orderId":"a"}`, false},
	}
	for _, tt := range tests {
		var req VerifyPaymentRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req), tt.body)
		assert.Equal(t, tt.want, bool(req.Success), tt.body)
	}

	var req VerifyPaymentRequest
	assert.Error(t, json.Unmarshal([]byte(`{"success":"yes please"}`), &req))
}

func TestVerifyRequestProof(t *testing.T) {
	var req VerifyPaymentRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"orderId": "o1",
		"razorpay_payment_id": "pay_1",
		"razorpay_payment_link_id": "plink_1",
		"razorpay_payment_link_reference_id": "o1",
		"razorpay_payment_link_status": "paid",
		"razorpay_signature": "abc"
	}`), &req))

	proof := req.proof()
	assert.True(t, proof.Present())
	assert.True(t, proof.Paid())
	assert.Equal(t, "o1", proof.ReferenceID)
}
