package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/invoicebuild/invoicebuild/internal/httpclient"
	"github.com/invoicebuild/invoicebuild/internal/testutil"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CLISuite struct {
	suite.Suite
	http *testutil.MockHTTPClient
	out  *bytes.Buffer
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.http = testutil.NewMockHTTPClient()
	s.out = &bytes.Buffer{}
}

func (s *CLISuite) run(args ...string) error {
	cmd := NewRootCommand(Options{
		NewHTTPClient: func() httpclient.Client { return s.http },
	})
	cmd.SetOut(s.out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--server", "http://invoices.test/", "--account", testutil.OwnerAddress}, args...))
	return cmd.Execute()
}

func (s *CLISuite) body() map[string]any {
	req := s.http.LastRequest()
	s.Require().NotNil(req)
	var m map[string]any
	s.Require().NoError(json.Unmarshal(req.Body, &m))
	return m
}

func (s *CLISuite) TestCreateConvertsUnits() {
	s.http.RegisterJSON("POST /v1/invoices", http.StatusCreated, `{"id":1,"owner":"`+testutil.OwnerAddress+`","principal":"1000000000000000000000"}`)

	err := s.run("create",
		"--amount", "1000",
		"--rate", "0.08",
		"--recipient", testutil.RecipientAddress,
		"--due-at", "1700000000",
		"--meta-url", "ipfs://meta",
	)
	s.Require().NoError(err)

	req := s.http.LastRequest()
	s.Equal(http.MethodPost, req.Method)
	s.Equal("http://invoices.test/v1/invoices", req.URL)
	s.Equal(testutil.OwnerAddress, req.Headers[types.HeaderAccount])

	body := s.body()
	s.Equal("1000000000000000000000", body["amount"])
	s.Equal("80000000000000000", body["overdue_interest"])
	s.Equal(float64(1700000000), body["due_at"])
	s.Equal(testutil.RecipientAddress, body["recipient"])

	s.Contains(s.out.String(), `"owner": "`+testutil.OwnerAddress+`"`)
}

func (s *CLISuite) TestCreateRejectsTooManyDecimals() {
	err := s.run("create", "--amount", "0.0000000000000000001", "--recipient", testutil.RecipientAddress)
	s.True(ierr.IsValueOutOfRange(err))
	s.Empty(s.http.Requests())
}

func (s *CLISuite) TestPaySendsIdempotencyKey() {
	s.http.RegisterJSON("POST /v1/invoices/3/payments", http.StatusOK, `{"id":"pay_1","invoice_id":3,"amount":"500000000000000000000","invoice_is_paid":false}`)

	s.Require().NoError(s.run("pay", "3", "--amount", "500", "--idempotency-key", "order-42"))

	req := s.http.LastRequest()
	s.Equal("order-42", req.Headers[types.HeaderIdempotencyKey])
	s.Equal("500000000000000000000", s.body()["amount"])
	s.Contains(s.out.String(), `"invoice_id": 3`)
}

func (s *CLISuite) TestPaySurfacesServerMessage() {
	s.http.RegisterJSON("POST /v1/invoices/3/payments", http.StatusConflict, `{"success":false,"error":{"message":"invoice already paid"}}`)

	err := s.run("pay", "3", "--amount", "1")
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
	s.Contains(err.Error(), "invoice already paid")
}

func (s *CLISuite) TestShowRejectsBadID() {
	err := s.run("show", "abc")
	s.True(ierr.IsValidation(err))

	err = s.run("show", "0")
	s.True(ierr.IsValidation(err))
}

func (s *CLISuite) TestShow() {
	s.http.RegisterJSON("GET /v1/invoices/7", http.StatusOK, `{"id":7,"outstanding":"1000000000000000000000","is_paid":false}`)

	s.Require().NoError(s.run("show", "7"))
	s.Equal(http.MethodGet, s.http.LastRequest().Method)
	s.Contains(s.out.String(), `"id": 7`)
}

func (s *CLISuite) TestShowManyKeepsOrder() {
	s.http.RegisterJSON("GET /v1/invoices/1", http.StatusOK, `{"id":1}`)
	s.http.RegisterJSON("GET /v1/invoices/2", http.StatusOK, `{"id":2}`)
	s.http.RegisterJSON("GET /v1/invoices/3", http.StatusOK, `{"id":3}`)

	s.Require().NoError(s.run("show", "3", "1", "2"))
	s.Len(s.http.Requests(), 3)

	var out []map[string]any
	s.Require().NoError(json.Unmarshal(s.out.Bytes(), &out))
	s.Require().Len(out, 3)
	s.Equal(float64(3), out[0]["id"])
	s.Equal(float64(1), out[1]["id"])
	s.Equal(float64(2), out[2]["id"])
}

func (s *CLISuite) TestShowManyFailsOnMissingInvoice() {
	s.http.RegisterJSON("GET /v1/invoices/1", http.StatusOK, `{"id":1}`)

	err := s.run("show", "1", "9")
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
}

func (s *CLISuite) TestDeposit() {
	s.http.RegisterJSON("POST /v1/accounts/"+testutil.PayerAddress+"/deposit", http.StatusOK, `{"address":"`+testutil.PayerAddress+`","balance":"2000000000000000000000"}`)

	s.Require().NoError(s.run("deposit", testutil.PayerAddress, "--amount", "2000", "--idempotency-key", "seed-1"))
	s.Equal("2000000000000000000000", s.body()["amount"])
	s.Equal("seed-1", s.http.LastRequest().Headers[types.HeaderIdempotencyKey])
	s.Contains(s.out.String(), testutil.PayerAddress)
}

func (s *CLISuite) TestQuoteIsOffline() {
	s.Require().NoError(s.run("quote",
		"--amount", "1000",
		"--rate", "0.08",
		"--due-at", "1700000000",
		"--at", "1700036000",
	))
	s.Empty(s.http.Requests())

	var q Quote
	s.Require().NoError(json.Unmarshal(s.out.Bytes(), &q))
	s.True(q.IsOverdue)
	s.Equal(int64(10), q.HoursOverdue)
	s.Equal("0.091324200913242", q.OverdueFee)
	s.Equal("1000.091324200913242", q.Outstanding)
}

func TestNewQuoteBeforeDue(t *testing.T) {
	q := NewQuote(decimalUnits(t, "1000"), decimalUnits(t, "0.08"), 1_700_000_000, 1_700_000_000)
	assert.False(t, q.IsOverdue)
	assert.Equal(t, int64(0), q.HoursOverdue)
	assert.Equal(t, "0", q.OverdueFee)
	assert.Equal(t, "1000", q.Outstanding)
}

func decimalUnits(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := fixedpoint.ParseUnits(s)
	require.NoError(t, err)
	return d
}
