package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johanforsgren/stashreview/internal/logger"
	"github.com/johanforsgren/stashreview/internal/provider/common"
)

const dumpedLogEntries = 20

// Execute runs cmd and returns the process exit code. Failures are reported
// on stderr together with the most recent log entries when --debug is set.
// The log file is closed whatever the outcome.
func Execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	defer logger.Close()

	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, ErrorStyle.Render("Error:"), common.ExtractErrorMessage(err))
	if debug, _ := cmd.PersistentFlags().GetBool("debug"); debug {
		dumpLogs(stderr, dumpedLogEntries)
	}
	return 1
}

func dumpLogs(w io.Writer, limit int) {
	entries := logger.GetLogs()
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if len(entries) == 0 {
		return
	}

	fmt.Fprintln(w, LabelStyle.Render("Recent log entries:"))
	for _, e := range entries {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%v", k, e.Fields[k]))
		}
		fmt.Fprintf(w, "  %s %-5s %s %s\n",
			e.Timestamp.Format("15:04:05.000"), strings.ToUpper(e.Level), e.Message, strings.Join(fields, " "))
	}
}
