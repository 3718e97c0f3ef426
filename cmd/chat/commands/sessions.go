package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bentsww/woodshop/internal/domain"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions listing command.
func NewSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved chat threads",
		Long: `List saved chat threads, most recent first.

The listed numbers can be used with /open inside an interactive session.`,
		RunE:          runSessions,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runSessions(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), newLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	printSessions(cmd.OutOrStdout(), a.store.Sorted())
	return nil
}

// listedSessions filters out empty threads so listing and /open numbering
// agree.
func listedSessions(sessions []domain.Session) []domain.Session {
	withContent := sessions[:0:0]
	for _, s := range sessions {
		if len(s.Exchanges) > 0 {
			withContent = append(withContent, s)
		}
	}
	return withContent
}

func printSessions(out io.Writer, sessions []domain.Session) {
	withContent := listedSessions(sessions)
	if len(withContent) == 0 {
		fmt.Fprintln(out, "No saved threads.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTARTED\tQUESTIONS\tFIRST QUESTION")
	for i, s := range withContent {
		started := "-"
		if at := s.StartedAt(); !at.IsZero() {
			started = at.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, started, len(s.Exchanges), s.Exchanges[0].Question)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(out, "flush: %v\n", err)
	}
}
