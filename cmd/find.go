package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/Another0Noob/levelsync/internal/search"
	"github.com/spf13/cobra"
)

var findLimit int

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Search the level index by name",
	Long: `Search the level index for a level name. Exact matches (ignoring
case, accents and punctuation) come first, then names starting with the
query, then fuzzy matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := setup(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ix := levelindex.Load(ctx, cfg.Levels.IndexFile)
		return runFind(cmd.OutOrStdout(), ix, strings.Join(args, " "), findLimit)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().IntVarP(
		&findLimit,
		"limit",
		"n",
		10,
		"maximum number of matches to print (0 for all)",
	)
}

func runFind(out io.Writer, ix levelindex.Index, query string, limit int) error {
	matches := search.Find(ix, query, limit)
	if len(matches) == 0 {
		return fmt.Errorf("no level matching %q", query)
	}
	for _, m := range matches {
		fmt.Fprintf(out, "%d\t%s\t(%s)\n", m.ID, m.Name, m.MatchType)
	}
	return nil
}
