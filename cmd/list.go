package cmd

import (
	"fmt"
	"io"

	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var listFormat string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the level index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := setup(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ix := levelindex.Load(ctx, cfg.Levels.IndexFile)
		return writeIndex(cmd.OutOrStdout(), ix, listFormat)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(
		&listFormat,
		"format",
		"f",
		"text",
		"output format: text, json or yaml",
	)
}

type listEntry struct {
	Name string `yaml:"name"`
	ID   int64  `yaml:"id"`
}

func writeIndex(out io.Writer, ix levelindex.Index, format string) error {
	switch format {
	case "text", "":
		for _, name := range ix.Names() {
			if _, err := fmt.Fprintf(out, "%d\t%s\n", ix[name], name); err != nil {
				return err
			}
		}
		return nil
	case "json":
		b, err := levelindex.Encode(ix)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	case "yaml":
		entries := make([]listEntry, 0, len(ix))
		for _, name := range ix.Names() {
			entries = append(entries, listEntry{Name: name, ID: ix[name]})
		}
		b, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = out.Write(b)
		return err
	default:
		return fmt.Errorf("unknown format %q (must be text, json or yaml)", format)
	}
}
