package router

import (
	"testing"

	"github.com/cockroachdb/errors"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/httpclient"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	log := logger.NewNopLogger()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "service unavailable", err: httpclient.NewError(503, nil), expected: true},
		{name: "too many requests", err: httpclient.NewError(429, nil), expected: true},
		{name: "bad request", err: httpclient.NewError(400, nil), expected: false},
		{name: "validation", err: ierr.NewError("bad payload").Mark(ierr.ErrValidation), expected: false},
		{name: "unknown", err: errors.New("boom"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldRetry(log, tt.err))
		})
	}
}
