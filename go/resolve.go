package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/convert"
	"github.com/rmmh/chunkport/go/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <identifier>...",
	Short: "Show how stored identifiers convert",
	Example: `  chunkport resolve 5:1
  chunkport resolve 'minecraft:log[data=13]'
  chunkport --config world.yaml resolve ic2:ore:3
  chunkport resolve --group stairs 'mymod:stairs[facing=west,half=top]'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("group", "", "pack the named states through this legacy state group instead of converting")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if group, _ := cmd.Flags().GetString("group"); group != "" {
		return resolveMetadata(cmd.OutOrStdout(), group, args)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ReportPath = ""
	s, err := convert.Build(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	for _, arg := range args {
		id, err := blocks.ParseIdentifier(arg)
		if err != nil {
			return err
		}
		r, err := s.Resolve(id)
		if err != nil {
			return err
		}
		fmt.Fprint(w, id, " -> ")
		if r.Known {
			fmt.Fprint(w, r.Block)
		} else {
			color.New(color.FgYellow).Fprint(w, r.Block, " (unmapped)")
		}
		fmt.Fprint(w, " -> ")
		switch {
		case !r.Stored:
			color.New(color.FgRed).Fprint(w, r.Target, " (not storable)")
		case cfg.Legacy():
			fmt.Fprintf(w, "%s = %d:%d", r.Target, r.ID, r.Data)
		default:
			fmt.Fprint(w, r.Target)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// resolveMetadata prints the data value each identifier's named states pack
// to, for modded blocks that reuse a vanilla state layout.
func resolveMetadata(w io.Writer, group string, args []string) error {
	for _, arg := range args {
		id, err := blocks.ParseIdentifier(arg)
		if err != nil {
			return err
		}
		data, err := resolver.Metadata(group, id.Named())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s -> %s:%d\n", id, id.ID, data)
	}
	return nil
}
