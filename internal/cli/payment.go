package cli

import (
	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	"github.com/invoicebuild/invoicebuild/internal/fixedpoint"
	"github.com/spf13/cobra"
)

func newPayCommand(client func() *Client) *cobra.Command {
	var (
		amount string
		key    string
	)

	cmd := &cobra.Command{
		Use:   "pay <invoice-id>",
		Short: "Pay toward an invoice from the calling account",
		Example: `  # pay 500 units, safe to retry with the same key
  invoicectl pay 1 --amount 500 --idempotency-key order-42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := fixedpoint.ParseUnits(amount)
			if err != nil {
				return err
			}

			resp, err := client().MakePayment(cmd.Context(), id, &dto.MakePaymentRequest{
				Amount:         value,
				IdempotencyKey: key,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Payment in currency units")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Key that makes retries of this payment safe")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newDepositCommand(client func() *Client) *cobra.Command {
	var (
		amount string
		key    string
	)

	cmd := &cobra.Command{
		Use:   "deposit <address>",
		Short: "Fund an account so it can pay invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := fixedpoint.ParseUnits(amount)
			if err != nil {
				return err
			}
			resp, err := client().Deposit(cmd.Context(), args[0], &dto.DepositRequest{
				Amount:         value,
				IdempotencyKey: key,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Deposit in currency units")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Key that makes retries of this deposit safe")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
