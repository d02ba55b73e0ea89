package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Another0Noob/levelsync/internal/gdapi"
	"github.com/Another0Noob/levelsync/internal/logging"
	"github.com/Another0Noob/levelsync/internal/uploads"
	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <level-id>...",
	Short: "Look up level names on the Geometry Dash servers",
	Long: `Fetch each level from the Geometry Dash servers and print its ID,
name, version, downloads and likes. The index is not modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(ctx context.Context, out, logOut io.Writer, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := uploads.ParseID(a)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	ctx, cfg, err := setup(ctx, logOut)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return resolveLevels(ctx, out, cfg.Client(), ids)
}

func resolveLevels(ctx context.Context, out io.Writer, client *gdapi.Client, ids []int64) error {
	log := logging.FromContext(ctx)
	failed := 0
	for _, id := range ids {
		lvl, err := client.GetLevel(ctx, id)
		if err != nil {
			log.Warn().Int64("level_id", id).Err(err).Msg("failed to fetch level")
			failed++
			continue
		}
		fmt.Fprintf(out, "%d\t%s\tv%d\t%d downloads\t%d likes\n", id, lvl.Name, lvl.Version, lvl.Downloads, lvl.Likes)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d levels could not be resolved", failed, len(ids))
	}
	return nil
}
