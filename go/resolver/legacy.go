package resolver

import (
	"log/slog"
	"strconv"

	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/mapping"
)

// Legacy resolves pre-flattening id+data identifiers. A Legacy is safe for
// concurrent use; the placeholder allocator is its only mutable state.
type Legacy struct {
	version      blocks.Version
	ids          *IDs
	table        *mapping.Table
	placeholders *Placeholders
	log          *slog.Logger
}

type LegacyOption func(*legacyOptions)

type legacyOptions struct {
	margin       int
	ceiling      int
	placeholders *Placeholders
	log          *slog.Logger
	register     func(*mapping.Table)
}

// WithPlaceholderMargin sets the gap between the last vanilla id and the
// first placeholder.
func WithPlaceholderMargin(n int) LegacyOption {
	return func(o *legacyOptions) { o.margin = n }
}

// WithIDCeiling caps placeholder ids at what the target can store:
// MaxLegacyID, MaxExtendedID or MaxWideID.
func WithIDCeiling(n int) LegacyOption {
	return func(o *legacyOptions) { o.ceiling = n }
}

// WithPlaceholders shares an allocator between resolvers.
func WithPlaceholders(p *Placeholders) LegacyOption {
	return func(o *legacyOptions) { o.placeholders = p }
}

func WithLogger(log *slog.Logger) LegacyOption {
	return func(o *legacyOptions) { o.log = log }
}

// WithTable replaces the vanilla table.
func WithTable(register func(*mapping.Table)) LegacyOption {
	return func(o *legacyOptions) { o.register = register }
}

func NewLegacy(v blocks.Version, ids *IDs, opts ...LegacyOption) (*Legacy, error) {
	o := legacyOptions{
		margin:   DefaultPlaceholderMargin,
		ceiling:  MaxExtendedID,
		log:      slog.Default(),
		register: registerLegacy,
	}
	for _, opt := range opts {
		opt(&o)
	}
	t := mapping.NewTable(v)
	t.SetExtra(GroupWaterlogged.Group())
	o.register(t)
	if err := t.Seal(); err != nil {
		return nil, errors.Wrapf(err, "legacy table for %s", v)
	}
	if o.placeholders == nil {
		o.placeholders = NewPlaceholders(ids.MaxVanilla()+o.margin, o.ceiling)
	}
	o.placeholders.Avoid(ids.Taken)
	o.log.Debug("legacy resolver ready", "version", v, "table", t, "ids", ids.Len())
	return &Legacy{
		version:      v,
		ids:          ids,
		table:        t,
		placeholders: o.placeholders,
		log:          o.log,
	}, nil
}

func (l *Legacy) Version() blocks.Version     { return l.version }
func (l *Legacy) IDs() *IDs                   { return l.ids }
func (l *Legacy) Table() *mapping.Table       { return l.table }
func (l *Legacy) Placeholders() *Placeholders { return l.placeholders }

// name resolves numeric ids through the id table.
func (l *Legacy) name(id string) (string, bool) {
	if n, err := strconv.Atoi(id); err == nil {
		return l.ids.Name(n)
	}
	return id, true
}

// To converts a legacy identifier. Unknown ids report false.
func (l *Legacy) To(id blocks.Identifier) (blocks.Block, bool) {
	name, ok := l.name(id.ID)
	if !ok {
		return blocks.Block{}, false
	}
	data, hasData := id.Data()
	return l.table.To(name, data, hasData, id.Named())
}

// From converts a block to its legacy identifier. Custom blocks that carry
// a numeric legacy id, or a name the id table knows, pass through; other
// custom blocks get a placeholder.
func (l *Legacy) From(b blocks.Block) (blocks.Identifier, bool, error) {
	if b.Type.IsCustom() {
		name := b.Type.Name()
		if _, known := l.ids.ID(name); known {
			return blocks.Identifier{ID: name, States: b.Props}, true, nil
		}
		ph, err := l.placeholders.Get(name)
		if err != nil {
			return blocks.Identifier{}, false, err
		}
		return blocks.Identifier{ID: strconv.Itoa(ph), States: b.Props}, true, nil
	}
	name, data, ok := l.table.From(b)
	if !ok {
		return blocks.Identifier{}, false, nil
	}
	id := blocks.NewIdentifier(name)
	if data != 0 {
		id = id.WithData(data)
	}
	return id, true, nil
}

// Numeric converts a name from From into id and data for chunk storage.
func (l *Legacy) Numeric(id blocks.Identifier) (int, int, bool) {
	n, ok := l.ids.ID(id.ID)
	if !ok {
		return 0, 0, false
	}
	data, _ := id.Data()
	return n, data, true
}
