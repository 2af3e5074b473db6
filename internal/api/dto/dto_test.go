package dto

import (
	"encoding/json"
	"testing"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = "0x1111111111111111111111111111111111111111"

func TestCreateInvoiceRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		checkFn func(error) bool
	}{
		{name: "valid", body: `{"amount":"100000000000000000000","recipient":"` + recipient + `"}`},
		{name: "numeric amount", body: `{"amount":100000000000000000000,"recipient":"` + recipient + `","overdue_interest":"80000000000000000"}`},
		{name: "zero amount", body: `{"amount":"0","recipient":"` + recipient + `"}`, checkFn: ierr.IsInvalidAmount},
		{name: "missing amount", body: `{"recipient":"` + recipient + `"}`, checkFn: ierr.IsInvalidAmount},
		{name: "negative amount", body: `{"amount":"-100","recipient":"` + recipient + `"}`, checkFn: ierr.IsValueOutOfRange},
		{name: "bad recipient", body: `{"amount":"100","recipient":"bob"}`, checkFn: ierr.IsValidation},
		{name: "zero amount without recipient", body: `{"amount":"0"}`, checkFn: ierr.IsInvalidAmount},
		{name: "negative due date", body: `{"amount":"100","recipient":"` + recipient + `","due_at":-5}`, checkFn: ierr.IsValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateInvoiceRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			if tt.checkFn == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "unexpected error %v", err)
		})
	}
}

func TestMakePaymentRequestValidate(t *testing.T) {
	req := MakePaymentRequest{Amount: fixedpoint.MustParseUnits("150.5")}
	assert.NoError(t, req.Validate())

	req.Amount = req.Amount.Neg()
	assert.True(t, ierr.IsValueOutOfRange(req.Validate()))
}

func TestResponsesEncodeAmountsAsStrings(t *testing.T) {
	resp := NewListResponse[int64](nil)
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(b))

	v := ValueResponse[any]{ID: 1, Value: fixedpoint.MustParseUnits("1")}
	b, err = json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"value":"1000000000000000000"}`, string(b))
}
