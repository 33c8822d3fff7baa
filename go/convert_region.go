package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rmmh/chunkport/go/convert"
	"github.com/rmmh/chunkport/go/region"
	"github.com/rmmh/chunkport/go/task"
)

var convertCmd = &cobra.Command{
	Use:   "convert <regiondir> <outputdir> [filterstrings...]",
	Short: "Convert every region file in a directory",
	Long: `Convert reads each r.X.Z.mca file in regiondir, converts its chunks and writes
the result under the same name in outputdir. With filter strings, only files
whose names contain one of them are converted.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().Bool("status", false, "serve task status and metrics while converting")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := convert.Build(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close report", "err", err)
		}
	}()

	reg := task.NewRegistry()
	if status, _ := cmd.Flags().GetBool("status"); status {
		srv := newServer(cfg.Listen, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				slog.Warn("status server stopped", "err", err)
			}
		}()
		defer srv.Close()
	}
	return convertWorld(ctx, s, args[0], args[1], args[2:], reg)
}

// regionFiles lists the region files in dir in name order, keeping those
// that match any of filters.
func regionFiles(dir string, filters []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".mca") {
			continue
		}
		if len(filters) > 0 && !slices.ContainsFunc(filters, func(f string) bool { return strings.Contains(name, f) }) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func convertWorld(ctx context.Context, s *convert.Session, in, out string, filters []string, reg *task.Registry) error {
	files, err := regionFiles(in, filters)
	if err != nil {
		return err
	}
	slog.Info("converting", "session", s.ID, "regions", len(files),
		"source", s.Config().Source, "target", s.Config().Target, "format", s.Config().Format)
	for _, path := range files {
		if err := convertRegion(ctx, s, path, out, reg); err != nil {
			return errors.Wrapf(err, "converting %s", filepath.Base(path))
		}
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func convertRegion(ctx context.Context, s *convert.Session, path, outDir string, reg *task.Registry) error {
	r, err := region.OpenRegion(path, slog.Default())
	if err != nil {
		return err
	}
	var chunks []region.Payload
	if err := r.ReadChunks(func(p region.Payload) error {
		chunks = append(chunks, p)
		return nil
	}); err != nil {
		return err
	}

	out := convert.NewRegionOutput(outDir, region.Zlib)
	progress := color.New(color.FgCyan)
	tk := s.Run(ctx, r.Name(), chunks, out)
	tk.OnProgress(func(p float64) {
		progress.Fprintf(os.Stderr, "\r%s %5.1f%%", r.Name(), 100*p)
	})
	reg.Add(tk)
	err = tk.Wait(ctx)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "%s %s: %v\n", r.Name(), tk.State(), err)
		return err
	}
	written, err := out.Flush()
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "%s: %d chunks -> %s\n", r.Name(), len(chunks), strings.Join(written, ", "))
	return nil
}
