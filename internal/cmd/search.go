package cmd

import (
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/output"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/spf13/cobra"
)

var bestOnly bool

var searchCmd = &cobra.Command{
	Use:   "search <title...>",
	Short: "List trailers for a movie title",
	Long: `Search every configured source for trailers of a movie title.

With --best only the first TMDB match is resolved, the same trailer that
"send" would email.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCommand,
}

func init() {
	searchCmd.Flags().BoolVar(&bestOnly, "best", false, "Only show the best TMDB match")
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	searchText := strings.Join(args, " ")
	renderer := output.NewRenderer(output.NewTheme(), output.DefaultWidth)

	var records []provider.TrailerRecord
	if bestOnly {
		best, err := a.aggregator.FindBest(cmd.Context(), searchText)
		if err != nil {
			return err
		}
		if best == nil {
			return &provider.NotFoundError{SearchText: searchText}
		}
		records = []provider.TrailerRecord{*best}
	} else {
		records, err = a.aggregator.FindAll(cmd.Context(), searchText)
		if err != nil {
			return err
		}
	}

	return renderer.Trailers(cmd.OutOrStdout(), searchText, records)
}
