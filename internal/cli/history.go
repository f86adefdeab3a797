package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/studiowebux/perseus/internal/executor"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/types"
)

// PrintHistory writes the most recent sends, newest first
func PrintHistory(w io.Writer, hist *history.Manager, limit int) error {
	entries, err := hist.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			color.New(color.Faint).Sprint(humanize.Time(e.Timestamp)),
			e.Method,
			entryStatus(e),
			executor.FormatDuration(e.Duration),
			humanize.Bytes(uint64(e.ResponseSize)),
			e.URL,
		)
	}
	return tw.Flush()
}

func entryStatus(e types.HistoryEntry) string {
	if e.Error != "" {
		return color.New(color.FgRed).Sprint("error")
	}
	return statusColor(e.ResponseStatus).Sprint(e.ResponseStatus)
}
