package convert

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/config"
	"github.com/rmmh/chunkport/go/region"
	"github.com/rmmh/chunkport/go/report"
	"github.com/rmmh/chunkport/go/resolver"
)

var idCeilings = map[int]int{
	8:  resolver.MaxLegacyID,
	12: resolver.MaxExtendedID,
	16: resolver.MaxWideID,
}

// Build wires a session from cfg: id tables, resolvers for both ends,
// remap rules and the report database. The session owns the report and
// closes it in Close.
func Build(cfg *config.Config, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	overrides, err := loadOverrides(cfg, log)
	if err != nil {
		return nil, err
	}

	var (
		ids    *resolver.IDs
		reader Reader
		writer Writer
	)
	if !cfg.Source.Flattened() {
		if ids, err = resolver.VanillaIDs(cfg.Source); err != nil {
			return nil, err
		}
		ids = ids.With(overrides)
		if reader, err = resolver.NewLegacy(cfg.Source, ids, resolver.WithLogger(log)); err != nil {
			return nil, err
		}
	} else if reader, err = resolver.NewModern(cfg.Source); err != nil {
		return nil, err
	}

	if cfg.Legacy() {
		targetIDs, err := resolver.VanillaIDs(cfg.Target)
		if err != nil {
			return nil, err
		}
		writer, err = resolver.NewLegacy(cfg.Target, targetIDs.With(overrides),
			resolver.WithPlaceholderMargin(cfg.PlaceholderMargin),
			resolver.WithIDCeiling(idCeilings[cfg.IDBits]),
			resolver.WithLogger(log))
		if err != nil {
			return nil, err
		}
	} else if writer, err = resolver.NewModern(cfg.Target); err != nil {
		return nil, err
	}

	opts := []Option{WithLogger(log)}
	if cfg.SimpleMappings != "" {
		f, err := os.Open(cfg.SimpleMappings)
		if err != nil {
			return nil, errors.Wrap(err, "simple mappings")
		}
		remap, err := resolver.LoadRemapper(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "loading %s", cfg.SimpleMappings)
		}
		log.Info("loaded remap rules", "path", cfg.SimpleMappings, "rules", remap.Len())
		opts = append(opts, WithRemapper(remap))
	}
	var store *report.Store
	if cfg.ReportPath != "" {
		if store, err = report.Open(cfg.ReportPath, log); err != nil {
			return nil, err
		}
		opts = append(opts, WithReport(store))
	}
	s, err := New(cfg, ids, reader, writer, opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return s, nil
}

// loadOverrides merges the mod id tables: level.dat item data first, then
// the explicit id table, which wins.
func loadOverrides(cfg *config.Config, log *slog.Logger) (map[string]int, error) {
	out := map[string]int{}
	if cfg.LevelDat != "" {
		buf, err := os.ReadFile(cfg.LevelDat)
		if err != nil {
			return nil, errors.Wrap(err, "level.dat")
		}
		items, err := region.ReadItemData(buf)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", cfg.LevelDat)
		}
		log.Info("loaded item data", "path", cfg.LevelDat, "ids", len(items))
		for k, v := range items {
			out[k] = v
		}
	}
	if cfg.IDTable != "" {
		f, err := os.Open(cfg.IDTable)
		if err != nil {
			return nil, errors.Wrap(err, "id table")
		}
		defer f.Close()
		table, err := resolver.LoadIDTranslations(f, log)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", cfg.IDTable)
		}
		log.Info("loaded id table", "path", cfg.IDTable, "ids", len(table))
		for k, v := range table {
			out[k] = v
		}
	}
	return out, nil
}
