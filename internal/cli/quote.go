package cli

import (
	"time"

	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Quote is the overdue cost of an unpaid invoice at one point in time. Every
// amount is rendered in currency units.
type Quote struct {
	At           int64  `json:"at"`
	IsOverdue    bool   `json:"is_overdue"`
	HoursOverdue int64  `json:"hours_overdue"`
	FeePerHour   string `json:"fee_per_hour"`
	OverdueFee   string `json:"overdue_fee"`
	Outstanding  string `json:"outstanding"`
}

// NewQuote evaluates the overdue formulas for an invoice with nothing paid
func NewQuote(principal, rate decimal.Decimal, dueAt, at int64) *Quote {
	inv := &invoice.Invoice{
		Principal:          principal,
		DueAt:              dueAt,
		AnnualInterestRate: rate,
		PaidAmount:         decimal.Zero,
		LateFeesRecorded:   decimal.Zero,
	}
	return &Quote{
		At:           at,
		IsOverdue:    inv.IsOverdue(at),
		HoursOverdue: inv.HoursOverdue(at),
		FeePerHour:   fixedpoint.FormatUnits(inv.FeePerHour()),
		OverdueFee:   fixedpoint.FormatUnits(inv.OverdueFee(at)),
		Outstanding:  fixedpoint.FormatUnits(inv.Outstanding(at)),
	}
}

func newQuoteCommand() *cobra.Command {
	var (
		amount string
		rate   string
		dueAt  int64
		at     int64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the overdue fee of an invoice offline",
		Example: `  # 1000 units at 8%, ten hours past due
  invoicectl quote --amount 1000 --rate 0.08 --due-at 1700000000 --at 1700036000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := fixedpoint.ParseUnits(amount)
			if err != nil {
				return err
			}
			interest, err := fixedpoint.ParseUnits(rate)
			if err != nil {
				return err
			}
			if at == 0 {
				at = time.Now().Unix()
			}
			return printJSON(cmd.OutOrStdout(), NewQuote(principal, interest, dueAt, at))
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Principal in currency units")
	cmd.Flags().StringVar(&rate, "rate", "0", "Annual overdue interest rate")
	cmd.Flags().Int64Var(&dueAt, "due-at", 0, "Due date as unix seconds")
	cmd.Flags().Int64Var(&at, "at", 0, "Evaluation time as unix seconds, defaults to now")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
