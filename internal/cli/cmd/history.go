package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tubefetch/internal/history"
	"tubefetch/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		status string
		url    string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded downloads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := historyFilter(limit, status, url)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			sess, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			defer sess.Close()

			if !sess.opts.HistoryEnabled {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled.")
				return nil
			}
			if sess.repo == nil {
				return &ExitError{Code: ExitCLIError, Err: errors.New("history database unavailable")}
			}

			entries, err := sess.repo.List(filter)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) && !sess.opts.NoColor && len(entries) > 0 {
				return ui.RunHistory(cmd.Context(), entries)
			}
			if err := ui.PrintHistory(out, entries); err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}
			return printTotals(out, sess.repo)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to show (0 = all)")
	cmd.Flags().StringVar(&status, "status", "", "Only show entries with this status: downloaded, skipped, failed")
	cmd.Flags().StringVar(&url, "url", "", "Only show attempts for this video URL")
	return cmd
}

func historyFilter(limit int, status, url string) (history.Filter, error) {
	if limit < 0 {
		return history.Filter{}, fmt.Errorf("--limit must not be negative, got %d", limit)
	}
	f := history.Filter{Limit: limit, URL: url}
	switch s := history.Status(status); s {
	case "":
	case history.StatusDownloaded, history.StatusSkipped, history.StatusFailed:
		f.Status = s
	default:
		return history.Filter{}, fmt.Errorf("unknown --status %q: want downloaded, skipped or failed", status)
	}
	return f, nil
}

// printTotals writes the all-time count per status below the listing.
func printTotals(w io.Writer, repo *history.Repository) error {
	counts := make(map[history.Status]int64, 3)
	for _, s := range []history.Status{history.StatusDownloaded, history.StatusSkipped, history.StatusFailed} {
		n, err := repo.CountByStatus(s)
		if err != nil {
			return fmt.Errorf("count %s entries: %w", s, err)
		}
		counts[s] = n
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d downloaded, %d skipped, %d failed\n",
		counts[history.StatusDownloaded], counts[history.StatusSkipped], counts[history.StatusFailed])
	return err
}
