package cmd

import (
	"errors"
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/output"
	"github.com/spf13/cobra"
)

var recipient string

var sendCmd = &cobra.Command{
	Use:   "send <title...> --to <address>",
	Short: "Email the best trailer for a movie title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSendCommand,
}

func init() {
	sendCmd.Flags().StringVar(&recipient, "to", "", "Recipient email address")
}

func runSendCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	outcome := a.notifier.SendTrailer(cmd.Context(), strings.Join(args, " "), recipient)

	renderer := output.NewRenderer(output.NewTheme(), output.DefaultWidth)
	if err := renderer.Outcome(cmd.OutOrStdout(), outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return errors.New(outcome.Message)
	}
	return nil
}
