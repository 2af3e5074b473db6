package validator

import (
	"testing"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Recipient string `validate:"required,eth_addr"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Recipient: "0x1111111111111111111111111111111111111111"}))

	err := ValidateRequest(sampleRequest{Recipient: "bob"})
	assert.True(t, ierr.IsValidation(err))

	err = ValidateRequest(sampleRequest{})
	assert.True(t, ierr.IsValidation(err))
}
