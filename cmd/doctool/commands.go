package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"draftdesk/internal/config"
	"draftdesk/internal/domain"
	"draftdesk/internal/logger"
	"draftdesk/internal/parser"
	"draftdesk/internal/repair"
	"draftdesk/internal/schema"
	"draftdesk/internal/service"
	"draftdesk/internal/upi"
	"draftdesk/internal/validator"
)

// errInvalidBundle makes validate exit non-zero after printing its findings.
var errInvalidBundle = errors.New("bundle is invalid")

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "doctool",
		Short:         "Repair, validate and render quotation, invoice and project brief bundles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newValidateCmd(opts),
		newRepairCmd(opts),
		newTotalsCmd(opts),
		newUPICmd(),
		newSchemaCmd(),
		newExportCmd(opts),
	)
	return root
}

func newValidateCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Report every schema violation in a bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := readCandidate(cmd, args)
			if err != nil {
				return err
			}
			findings := validator.NewEngine(validator.NewDefaultRegistry()).Validate(candidate)
			if findings == nil {
				findings = []domain.ValidationFinding{}
			}
			if err := writeJSON(cmd.OutOrStdout(), service.ValidationResult{OK: len(findings) == 0, Errors: findings}); err != nil {
				return err
			}
			if len(findings) > 0 {
				return errInvalidBundle
			}
			return nil
		},
	}
}

func newRepairCmd(opts *rootOptions) *cobra.Command {
	var fromText bool
	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair a candidate bundle into a valid one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newRepairEngine(cmd, opts)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var bundle any
			if fromText {
				bundle, err = engine.RepairText(string(data))
			} else {
				bundle, err = engine.RepairJSON(data)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), bundle)
		},
	}
	cmd.Flags().BoolVar(&fromText, "text", false, "input is free text containing a JSON bundle")
	return cmd
}

func newTotalsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "totals [file]",
		Short: "Repair a single draft and recompute its totals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newRepairEngine(cmd, opts)
			if err != nil {
				return err
			}
			candidate, err := readCandidate(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.RepairDraft(candidate))
		},
	}
}

func newUPICmd() *cobra.Command {
	var (
		req    upi.Request
		amount string
	)
	cmd := &cobra.Command{
		Use:   "upi",
		Short: "Build a UPI payment deep link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(amount) != "" {
				a, err := decimal.NewFromString(strings.TrimSpace(amount))
				if err != nil {
					return fmt.Errorf("invalid --amount %q: %w", amount, err)
				}
				req.Amount = &a
			}
			link, err := upi.BuildLink(req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link.Deeplink)
			return err
		},
	}
	cmd.Flags().StringVar(&req.UPIID, "id", "", "payee UPI id (name@bank)")
	cmd.Flags().StringVar(&req.PayeeName, "payee", "", "payee name")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, omitted from the link when empty")
	cmd.Flags().StringVar(&req.Currency, "currency", upi.DefaultCurrency, "currency code")
	cmd.Flags().StringVar(&req.Note, "note", "", "transaction note")
	cmd.Flags().StringVar(&req.TxnRef, "ref", "", "transaction reference")
	cmd.Flags().StringVar(&req.CallbackURL, "url", "", "callback URL")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("payee")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the DocumentBundle JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), schema.Generate())
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Repair a bundle and render it as pdf, xlsx or csv",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			engine, err := newRepairEngine(cmd, opts)
			if err != nil {
				return err
			}
			candidate, err := readCandidate(cmd, args)
			if err != nil {
				return err
			}

			svc := service.NewExportService(engine, nil, newLogger(cmd, opts))
			result, err := svc.Export(cmd.Context(), candidate, f)
			if err != nil {
				return err
			}

			if output == "" {
				output = result.FileName
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(result.Content)
				return err
			}
			if err := os.WriteFile(output, result.Content, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			_, err = fmt.Fprintln(cmd.ErrOrStderr(), "wrote", output)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "output format: pdf, xlsx or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout (default: derived from the document number)")
	return cmd
}

func newLogger(cmd *cobra.Command, opts *rootOptions) zerolog.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel, "console")
}

// newRepairEngine builds an engine with the same environment defaults as
// the server.
func newRepairEngine(cmd *cobra.Command, opts *rootOptions) (*repair.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return repair.NewEngine(repair.Defaults{
		InvoiceDueDays:     cfg.Repair.InvoiceDueDays,
		QuotationValidDays: cfg.Repair.QuotationValidDays,
		Currency:           cfg.Repair.Currency,
		Locale:             cfg.Repair.Locale,
		Unit:               cfg.Repair.Unit,
	}, nil, newLogger(cmd, opts)), nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

func readCandidate(cmd *cobra.Command, args []string) (any, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	candidate, err := parser.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("input is not valid JSON: %w", err)
	}
	return candidate, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
