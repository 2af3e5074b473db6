// Package cli implements invoicectl, a command line client for the invoice
// API. Amounts are given in whole currency units and converted to 18 decimal
// base units before they are sent.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/invoicebuild/invoicebuild/internal/httpclient"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Options configures the root command. NewHTTPClient is replaced in tests.
type Options struct {
	NewHTTPClient func() httpclient.Client
	Logger        *logger.Logger
}

type rootFlags struct {
	server  string
	account string
}

// NewRootCommand assembles invoicectl and its subcommands
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	if opts.NewHTTPClient == nil {
		opts.NewHTTPClient = func() httpclient.Client {
			return httpclient.NewDefaultClient(httpclient.DefaultClientConfig(), opts.Logger)
		}
	}

	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "invoicectl - create, inspect and pay invoices",
		Long: `invoicectl talks to an invoicebuild server. Every request is made on
behalf of the account given with --account, which becomes the owner of
created invoices and the payer of payments.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.server, "server", envOr("INVOICEBUILD_SERVER", "http://localhost:8080"), "Server base url")
	root.PersistentFlags().StringVar(&flags.account, "account", os.Getenv("INVOICEBUILD_ACCOUNT"), "Caller account address")

	client := func() *Client {
		return NewClient(opts.NewHTTPClient(), flags.server, flags.account)
	}

	root.AddCommand(
		newCreateCommand(client),
		newPayCommand(client),
		newShowCommand(client),
		newDepositCommand(client),
		newQuoteCommand(),
	)
	return root
}

// Execute runs invoicectl with the process arguments
func Execute() {
	log := logger.L
	if err := NewRootCommand(Options{Logger: log}).Execute(); err != nil {
		log.Debugw("command execution failed", "error", err)
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
