package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/adapter/http/middleware"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/auth"
	"github.com/iho/goremit/internal/infrastructure/config"
	"github.com/iho/goremit/internal/infrastructure/logger"
	"github.com/iho/goremit/internal/infrastructure/postgres"
)

type options struct {
	baseURL        string
	token          string
	timeout        time.Duration
	idempotencyKey string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "goremit-cli",
		Short:         "GoRemit CLI tool",
		Long:          `A command line interface for the GoRemit points remittance API.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoRemit API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GOREMIT_TOKEN"), "Bearer token (defaults to $GOREMIT_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		accountsCmd(opts),
		remitCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodPost, "/accounts", nil)
		},
	}
	openCmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	getCmd := &cobra.Command{
		Use:   "get <account-number>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/accounts/"+url.PathEscape(args[0]), nil)
		},
	}

	depositCmd := &cobra.Command{
		Use:   "deposit <account-number> <amount>",
		Short: "Add points to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			return opts.call(cmd, http.MethodPost, "/accounts/points", dto.DepositRequest{
				Amount:        amount,
				AccountNumber: args[0],
			})
		},
	}
	depositCmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	var page, size int
	historyCmd := &cobra.Command{
		Use:   "history <account-number>",
		Short: "List successful transactions of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("size", strconv.Itoa(size))
			return opts.call(cmd, http.MethodGet, "/accounts/"+url.PathEscape(args[0])+"/transactions?"+q.Encode(), nil)
		},
	}
	historyCmd.Flags().IntVar(&page, "page", 0, "Zero-based page")
	historyCmd.Flags().IntVar(&size, "size", domain.DefaultPageSize, "Page size")

	cmd.AddCommand(openCmd, getCmd, depositCmd, historyCmd)
	return cmd
}

func remitCmd(opts *options) *cobra.Command {
	var req dto.RemitRequest

	cmd := &cobra.Command{
		Use:   "remit",
		Short: "Send points to a friend's account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodPost, "/accounts/remit", req)
		},
	}

	cmd.Flags().StringVar(&req.RemitterAccountNumber, "from", "", "Remitter account number")
	cmd.Flags().StringVar(&req.RecipientsAccountNumber, "to", "", "Recipient account number")
	cmd.Flags().Int64Var(&req.Amount, "amount", 0, "Amount to send")
	cmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	migrator := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
		return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Down()
			},
		},
	)

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Mint a development bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return config.ErrMissingJWTSecret
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(domain.Identity{ID: args[0], Email: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

// call sends one API request and pretty-prints the JSON response. Non-2xx
// responses are printed too and reported as an error.
func (o *options) call(cmd *cobra.Command, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, o.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}
	if o.idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, o.idempotencyKey)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	printJSON(cmd.OutOrStdout(), raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.ErrorCode != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.ErrorCode, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return nil
}

func printJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		w.Write(raw)
		return
	}
	buf.WriteByte('\n')
	w.Write(buf.Bytes())
}
