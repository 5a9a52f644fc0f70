package ui

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"tubefetch/internal/history"
	"tubefetch/internal/util/format"
)

// RunHistory shows entries in an interactive table until the user quits.
func RunHistory(ctx context.Context, entries []*history.Entry) error {
	prog := tea.NewProgram(NewHistoryModel(entries), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}

// PrintHistory writes entries as a plain aligned listing, for non-TTY output.
func PrintHistory(w io.Writer, entries []*history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No downloads recorded yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tTYPE\tQUALITY\tSIZE\tTITLE\tPATH")
	for _, e := range entries {
		size := "-"
		if e.Bytes > 0 {
			size = format.HumanizeBytes(e.Bytes)
		}
		quality := e.Resolution
		if quality == "" {
			quality = "-"
		}
		detail := e.FilePath
		if e.Status != history.StatusDownloaded {
			detail = e.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Status, e.ContentType, quality, size, e.Title, detail)
	}
	return tw.Flush()
}
