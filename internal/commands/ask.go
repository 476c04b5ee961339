package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-chat/internal/widget"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, newClient(), strings.Join(args, " "))
	},
}

// runAsk prints the reply, or the localized error text the widget would
// show. A failed exchange still exits non-zero.
func runAsk(cmd *cobra.Command, client widget.Chatter, text string) error {
	w := widget.New(client, language())
	w.Open()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !w.Send(ctx, text) {
		return fmt.Errorf("message is empty")
	}

	msgs := w.State().Messages
	last := msgs[len(msgs)-1]
	if last.Error {
		fmt.Fprintln(cmd.ErrOrStderr(), last.Text)
		return fmt.Errorf("chat request failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), last.Text)
	return nil
}
