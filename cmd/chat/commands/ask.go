package commands

import (
	"fmt"
	"strings"

	"github.com/bentsww/woodshop/internal/domain"
	"github.com/spf13/cobra"
)

var askTopic string

// NewAskCmd creates the one-shot ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Long: `Ask a single question, print the answer, and exit.

The exchange is appended to the active thread, so a later interactive
session picks up where the one-shot left off.

Examples:
  chat ask "What glue should I use for outdoor furniture?"
  chat ask --topic tool-recommendations "Which track saw do you use?"`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runAsk,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&askTopic, "topic", string(domain.DefaultTopic), "Topic to query (bents, shop-improvement, tool-recommendations)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	topic, err := domain.ParseTopic(askTopic)
	if err != nil {
		return fmt.Errorf("unknown topic %q: topics are %s", askTopic, topicNames())
	}

	a, err := newApp(cmd.Context(), newLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	if topic != a.controller.Topic() {
		if err := a.controller.SwitchTopic(topic); err != nil {
			return err
		}
	}

	question := strings.Join(args, " ")
	ex, err := a.controller.Ask(cmd.Context(), question, topic)
	if err != nil {
		return err
	}

	printExchange(cmd.OutOrStdout(), ex)
	return nil
}
