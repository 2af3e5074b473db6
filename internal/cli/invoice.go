package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

func newCreateCommand(client func() *Client) *cobra.Command {
	var (
		amount    string
		rate      string
		recipient string
		dueAt     int64
		dueIn     time.Duration
		metaURL   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new invoice owned by the calling account",
		Example: `  # 1000 units due in ten days with 8% annual overdue interest
  invoicectl create --amount 1000 --rate 0.08 --recipient 0xb0b... --due-in 240h`,
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
			if dueIn > 0 {
				dueAt = time.Now().Add(dueIn).Unix()
			}

			resp, err := client().CreateInvoice(cmd.Context(), &dto.CreateInvoiceRequest{
				Amount:          principal,
				Recipient:       recipient,
				DueAt:           dueAt,
				OverdueInterest: interest,
				MetaURL:         metaURL,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Principal in currency units, e.g. 150.5")
	cmd.Flags().StringVar(&rate, "rate", "0", "Annual overdue interest rate, 0.08 is 8%")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient address")
	cmd.Flags().Int64Var(&dueAt, "due-at", 0, "Due date as unix seconds, 0 means due on receipt")
	cmd.Flags().DurationVar(&dueIn, "due-in", 0, "Due date relative to now, overrides --due-at")
	cmd.Flags().StringVar(&metaURL, "meta-url", "", "Metadata location returned as the token uri")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}

func newShowCommand(client func() *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <invoice-id>...",
		Short: "Print every view of one or more invoices as of now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			c := client()
			if len(ids) == 1 {
				resp, err := c.GetInvoiceSummary(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			}

			summaries, err := fetchSummaries(cmd.Context(), c, ids)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summaries)
		},
	}
	return cmd
}

// maxConcurrentFetches bounds the requests show keeps in flight
const maxConcurrentFetches = 4

// fetchSummaries loads the summaries of ids concurrently, keeping the order of
// ids. The first failure cancels the remaining requests.
func fetchSummaries(ctx context.Context, c *Client, ids []int64) ([]*dto.InvoiceSummaryResponse, error) {
	summaries := make([]*dto.InvoiceSummaryResponse, len(ids))

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(maxConcurrentFetches)

	for i, id := range ids {
		i, id := i, id
		p.Go(func(ctx context.Context) error {
			resp, err := c.GetInvoiceSummary(ctx, id)
			if err != nil {
				return err
			}
			summaries[i] = resp
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ierr.NewError("invalid invoice id").
			WithHintf("%q is not an invoice id", s).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}
