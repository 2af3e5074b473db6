package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDefinesEveryTable(t *testing.T) {
	ddl := Schema()
	for _, table := range []string{"registry", "owner_invoices", "invoices", "accounts", "payments"} {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestSchemaStoresAmountsAsIntegers(t *testing.T) {
	ddl := Schema()
	for _, column := range []string{
		"principal             NUMERIC(78,0)",
		"paid_amount           NUMERIC(78,0)",
		"late_fees_recorded    NUMERIC(78,0)",
		"balance     NUMERIC(78,0)",
		"amount             NUMERIC(78,0)",
	} {
		assert.Contains(t, ddl, column)
	}
	assert.NotContains(t, ddl, "DOUBLE")
	assert.NotContains(t, ddl, "REAL")
}
