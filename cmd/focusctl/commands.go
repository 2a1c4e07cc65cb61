package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/cloudflare"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/gateway"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/services"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var apiBase string
	cfg := config.Load()

	root := &cobra.Command{
		Use:          "focusctl",
		Short:        "Inspect the Cloudflare Gateway setup behind focus mode",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if apiBase != "" {
			cfg.CloudflareAPIBase = apiBase
		}
	}
	root.PersistentFlags().StringVar(&apiBase, "api-base", "", "Cloudflare API base URL (default from CLOUDFLARE_API_BASE)")

	root.AddCommand(
		newExprCmd(),
		newVerifyCmd(cfg),
		newDiagnoseCmd(cfg),
	)
	return root
}

func newExprCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expr URL...",
		Short: "Print the Gateway traffic expression for the given URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traffic := gateway.BuildTrafficExpression(args)
			if traffic == "" {
				return errors.New("no usable URLs")
			}
			fmt.Fprintln(cmd.OutOrStdout(), traffic)
			return nil
		},
	}
}

func newVerifyCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify CLOUDFLARE_API_TOKEN against the Cloudflare API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Cloudflare.APIToken == "" {
				return errors.New("CLOUDFLARE_API_TOKEN is not set")
			}
			client := cloudflare.NewClient(cfg.CloudflareAPIBase, cfg.Cloudflare.APIToken, cfg.Cloudflare.AccountID, cfg.CloudflareTimeout)
			resp, err := client.VerifyToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("token verification request failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.Status, resp.StatusText)
			if !resp.OK() {
				if msg := resp.FirstErrorMessage(); msg != "" {
					return fmt.Errorf("token rejected: %s", msg)
				}
				return errors.New("token rejected")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token is valid")
			return nil
		},
	}
}

func newDiagnoseCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Run the read-only Cloudflare probes and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, status := services.NewDiagnosticsService(cfg).Run(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if status != http.StatusOK {
				return errors.New(report.Error)
			}
			return nil
		},
	}
}
