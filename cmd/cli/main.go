package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/domain"
)

var (
	baseURL    string
	timeout    time.Duration
	jsonOutput bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gowallet-cli",
		Short:         "GoWallet CLI tool",
		Long:          `A command line interface for interacting with the GoWallet API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(balanceCmd(), depositCmd(), withdrawCmd(), entriesCmd(), auditCmd(), ledgerCmd())
	return rootCmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.BalanceResponse
			if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/api/v1/wallet/balance", nil, "", &resp); err != nil {
				return err
			}
			return printBalance(cmd.OutOrStdout(), &resp)
		},
	}
}

func depositCmd() *cobra.Command {
	return amountCmd("deposit", "Deposit funds into the wallet", "/api/v1/wallet/deposit")
}

func withdrawCmd() *cobra.Command {
	return amountCmd("withdraw", "Withdraw funds from the wallet", "/api/v1/wallet/withdraw")
}

func amountCmd(use, short, path string) *cobra.Command {
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			body := map[string]json.Number{"amount": json.Number(amount.String())}

			var resp dto.BalanceResponse
			if err := newAPIClient().do(cmd.Context(), http.MethodPost, path, body, idempotencyKey, &resp); err != nil {
				return err
			}
			return printBalance(cmd.OutOrStdout(), &resp)
		},
	}

	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key sent with the request")
	return cmd
}

func entriesCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List ledger entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var resp dto.EntriesResponse
			if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/api/v1/wallet/entries?"+query.Encode(), nil, "", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, resp)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tAMOUNT\tBEFORE\tAFTER\tTIME")
			for _, e := range resp.Entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					truncate(e.ID, 12), e.Type, e.Amount, e.BalanceBefore, e.BalanceAfter,
					e.EventTime.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultPageSize, "Maximum number of entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entries to skip")
	return cmd
}

func auditCmd() *cobra.Command {
	var action, status string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List deposit and withdrawal audit logs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if action != "" {
				query.Set("action", action)
			}
			if status != "" {
				query.Set("status", status)
			}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var resp dto.AuditLogsResponse
			if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/api/v1/wallet/audit?"+query.Encode(), nil, "", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, resp)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tSTATUS\tAMOUNT\tENTRY\tDETAIL")
			for _, l := range resp.AuditLogs {
				detail := l.ErrorMessage
				if l.BalanceAfter != nil {
					detail = "balance " + l.BalanceAfter.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.CreatedAt.Format(time.RFC3339), l.Action, l.Status, l.Amount,
					truncate(l.EntryID, 12), detail)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Filter by action (wallet.deposit, wallet.withdraw)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (success, failure, error)")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultPageSize, "Maximum number of logs")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of logs to skip")
	return cmd
}

func ledgerCmd() *cobra.Command {
	ledger := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Verify the ledger entry chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.VerificationResponse
			err := newAPIClient().do(cmd.Context(), http.MethodGet, "/api/v1/wallet/verify", nil, "", &resp)

			// An inconsistent ledger comes back as 409 with the report in the body.
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict && len(apiErr.Body) > 0 {
				if jsonErr := json.Unmarshal(apiErr.Body, &resp); jsonErr != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := printJSON(out, resp); err != nil {
					return err
				}
			} else if resp.Consistent {
				fmt.Fprintln(out, "Ledger verification PASSED")
				fmt.Fprintf(out, "Entries checked: %d\nBalance: %s\n", resp.EntriesChecked, resp.Balance)
			} else {
				fmt.Fprintln(out, "Ledger verification FAILED")
				fmt.Fprintf(out, "Entries checked: %d\nBroken entry: %s\nReason: %s\n",
					resp.EntriesChecked, resp.FirstBrokenEntryID, resp.Reason)
			}

			if !resp.Consistent {
				return domain.ErrInconsistentLedger
			}
			return nil
		},
	}

	ledger.AddCommand(verify)
	return ledger
}

// parseAmount rejects malformed and non-positive amounts before any request is made.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, s)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type apiError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s: %s", e.StatusCode, e.Code, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

func (c *apiClient) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{StatusCode: resp.StatusCode, Body: data}
		var errResp dto.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printBalance(w io.Writer, resp *dto.BalanceResponse) error {
	if jsonOutput {
		return printJSON(w, resp)
	}
	_, err := fmt.Fprintf(w, "Balance: %s\n", resp.Amount)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
