// Package commands implements the woodshop chat CLI.
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bentsww/woodshop/internal/chat"
	"github.com/bentsww/woodshop/internal/domain"
	"github.com/bentsww/woodshop/internal/render"
	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the root command. Without a subcommand it starts an
// interactive session.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the woodworking assistant",
		Long: `Interactive chat with Bent's woodworking assistant.

Questions are answered from Jason Bent's video library. Inside the
session the following commands are available:

  /new              start a new thread
  /topic <name>     switch topic (bents, shop-improvement, tool-recommendations)
  /sessions         list saved threads
  /open <number>    reopen a thread from the /sessions list
  /quit             exit`,
		RunE:          runInteractive,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewSessionsCmd())

	return cmd
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), newLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Bent's Woodworking Assistant (topic: %s)\n", a.controller.Topic())
	if len(a.suggestions) > 0 {
		fmt.Fprintln(out, "Try asking:")
		for _, s := range a.suggestions {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := runSlashCommand(out, a, line); quit {
				return nil
			}
			continue
		}
		askAndPrint(cmd.Context(), out, a, line)
	}
}

// runSlashCommand handles one /-prefixed line. It returns true when the
// session should end.
func runSlashCommand(out io.Writer, a *app, line string) bool {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "/quit", "/exit":
		return true
	case "/new":
		a.controller.NewThread()
		fmt.Fprintln(out, "Started a new thread.")
	case "/topic":
		topic, err := domain.ParseTopic(arg)
		if err != nil {
			fmt.Fprintf(out, "Unknown topic %q. Topics: %s\n", arg, topicNames())
			return false
		}
		if err := a.controller.SwitchTopic(topic); err != nil {
			fmt.Fprintf(out, "Could not switch topic: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "Topic is now %s.\n", topic)
	case "/sessions":
		printSessions(out, a.store.Sorted())
	case "/open":
		openSession(out, a, arg)
	default:
		fmt.Fprintf(out, "Unknown command %s\n", verb)
	}
	return false
}

func openSession(out io.Writer, a *app, arg string) {
	n, err := strconv.Atoi(arg)
	sorted := listedSessions(a.store.Sorted())
	if err != nil || n < 1 || n > len(sorted) {
		fmt.Fprintln(out, "Usage: /open <number> (see /sessions)")
		return
	}
	if err := a.controller.OpenSession(sorted[n-1].ID); err != nil {
		fmt.Fprintf(out, "Could not open thread: %v\n", err)
		return
	}
	for _, ex := range a.controller.Active() {
		fmt.Fprintf(out, "Q: %s\n", ex.Question)
		printExchange(out, ex)
	}
}

func askAndPrint(ctx context.Context, out io.Writer, a *app, question string) {
	ex, err := a.controller.Ask(ctx, question, a.controller.Topic())
	switch {
	case errors.Is(err, chat.ErrBusy):
		fmt.Fprintln(out, "Still waiting on the previous question.")
		return
	case err != nil && ex.Timestamp == "":
		// Rejected before anything was sent.
		fmt.Fprintf(out, "%v\n", err)
		return
	}
	// Failures past this point produced a synthetic error exchange, which
	// prints like any other answer.
	printExchange(out, ex)
}

func printExchange(out io.Writer, ex domain.Exchange) {
	fmt.Fprintln(out, render.PlainVideoTokens(ex.AnswerText, ex.VideoLinks))
	if len(ex.VideoURLs) > 0 {
		fmt.Fprintln(out, "Videos:")
		for _, u := range ex.VideoURLs {
			fmt.Fprintf(out, "  %s\n", u)
		}
	}
}

func topicNames() string {
	names := make([]string, 0, len(domain.Topics()))
	for _, t := range domain.Topics() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
