// Package convert rewrites chunk block storage from one game version to
// another, section by section.
package convert

import (
	"context"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/config"
	"github.com/rmmh/chunkport/go/palette"
	"github.com/rmmh/chunkport/go/region"
	"github.com/rmmh/chunkport/go/report"
	"github.com/rmmh/chunkport/go/resolver"
)

// ErrProtoChunk marks chunks that never finished generating.
var ErrProtoChunk = errors.New("chunk is not fully generated")

// Reader resolves identifiers stored by the source version.
type Reader interface {
	To(id blocks.Identifier) (blocks.Block, bool)
}

// Writer resolves blocks to identifiers for the target version.
type Writer interface {
	From(b blocks.Block) (blocks.Identifier, bool, error)
}

// Numbering turns legacy identifiers into the numeric id and data a legacy
// target stores.
type Numbering interface {
	Numeric(id blocks.Identifier) (int, int, bool)
}

var air = blocks.NewIdentifier("minecraft:air")

type Session struct {
	ID uuid.UUID

	cfg    *config.Config
	ids    *resolver.IDs
	reader Reader
	writer Writer
	remap  *resolver.Remapper
	report *report.Store
	log    *slog.Logger

	dataVersion int
	layout      palette.Layout

	mu       sync.Mutex
	unmapped map[string]int
	dropped  map[string]int
}

type Option func(*Session)

func WithRemapper(m *resolver.Remapper) Option {
	return func(s *Session) { s.remap = m }
}

func WithReport(r *report.Store) Option {
	return func(s *Session) { s.report = r }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New builds a session. ids numbers the source's legacy ids; it is unused
// for flattened sources. A legacy target's writer must also implement
// Numbering.
func New(cfg *config.Config, ids *resolver.IDs, reader Reader, writer Writer, opts ...Option) (*Session, error) {
	s := &Session{
		ID:          uuid.New(),
		cfg:         cfg,
		ids:         ids,
		reader:      reader,
		writer:      writer,
		log:         slog.Default(),
		dataVersion: resolver.DataVersion(cfg.Target),
		unmapped:    map[string]int{},
		dropped:     map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.ID)
	if cfg.Legacy() {
		if _, ok := writer.(Numbering); !ok {
			return nil, errors.Errorf("a %s target needs a numbering writer", cfg.Target)
		}
		s.layout = map[int]palette.Layout{8: palette.Blocks8, 12: palette.Blocks12, 16: palette.Blocks16}[cfg.IDBits]
	}
	if s.report != nil {
		if err := s.report.StartSession(s.ID, cfg.Source.String(), cfg.Target.String()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) Config() *config.Config { return s.cfg }
func (s *Session) Report() *report.Store  { return s.report }

// Close flushes the report and closes it.
func (s *Session) Close() error {
	if s.report == nil {
		return nil
	}
	if err := s.Flush(); err != nil {
		s.report.Close()
		return err
	}
	return s.report.Close()
}

// ConvertChunk converts one decompressed chunk payload, light included
// when the session copies light.
func (s *Session) ConvertChunk(ctx context.Context, raw []byte) (*region.Chunk, error) {
	in, err := region.ReadChunk(raw)
	if err != nil {
		return nil, err
	}
	out, err := s.convertBlocks(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.cfg.Lighting {
		s.copyLight(in, out)
	}
	return out, nil
}

func (s *Session) convertBlocks(ctx context.Context, in *region.Chunk) (*region.Chunk, error) {
	if !in.Full() {
		return nil, errors.Wrapf(ErrProtoChunk, "status %q", in.Status)
	}
	out := &region.Chunk{X: in.X, Z: in.Z, DataVersion: s.dataVersion}
	if !s.cfg.Legacy() {
		out.Status = "full"
	}
	for _, sec := range in.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o, err := s.convertSection(sec)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk %d,%d section %d", in.X, in.Z, sec.Y)
		}
		out.Sections = append(out.Sections, o)
	}
	return out, nil
}

// copyLight carries valid light arrays over to the matching output
// sections; anything malformed is left for the game to relight.
func (s *Session) copyLight(in, out *region.Chunk) {
	for i, sec := range in.Sections {
		if i >= len(out.Sections) {
			return
		}
		dst := out.Sections[i]
		for _, l := range []struct {
			src []byte
			dst *[]byte
		}{{sec.BlockLight, &dst.BlockLight}, {sec.SkyLight, &dst.SkyLight}} {
			if l.src == nil {
				continue
			}
			n, err := palette.DecodeNibbles(l.src)
			if err != nil {
				s.log.Debug("dropping light", "x", in.X, "z", in.Z, "y", sec.Y, "err", err)
				continue
			}
			*l.dst = palette.EncodeNibbles(n)
		}
	}
}

func identifierKey(id blocks.Identifier) any { return id.String() }

func blockKey(b blocks.Block) any { return b.Key() }

func legacyKey(l palette.LegacyIdentifier) any { return l }

func (s *Session) convertSection(sec *region.Section) (*region.Section, error) {
	out := &region.Section{Y: sec.Y}
	var wire *palette.Palette[blocks.Identifier]
	switch {
	case sec.Flattened():
		wire = sec.Blocks()
	case sec.Arrays != nil:
		legacy, err := palette.DecodeSection(sec)
		if err != nil {
			return nil, err
		}
		wire, err = palette.Map(legacy, identifierKey, func(l palette.LegacyIdentifier) (blocks.Identifier, error) {
			id := blocks.NewIdentifier(strconv.Itoa(int(l.ID)))
			if l.Data != 0 {
				id = id.WithData(int(l.Data))
			}
			return id, nil
		})
		if err != nil {
			return nil, err
		}
	default:
		// light only
		return out, nil
	}

	var missing []string
	typed, err := palette.Map(wire, blockKey, func(id blocks.Identifier) (blocks.Block, error) {
		b, resolved, ok := s.read(id)
		if !ok {
			// a rule's output is the user's answer for id, even when only
			// the target knows it
			if resolved.Equal(id) {
				missing = append(missing, id.String())
			}
			b = s.custom(resolved)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		s.record(s.unmapped, tally(wire, blocks.Identifier.String, missing), blocksUnmapped)
	}

	var unwritable []string
	target, err := palette.Map(typed, identifierKey, func(b blocks.Block) (blocks.Identifier, error) {
		id, ok, err := s.write(b)
		if err != nil {
			return blocks.Identifier{}, err
		}
		if !ok {
			unwritable = append(unwritable, b.String())
			return air, nil
		}
		return id, nil
	})
	if err != nil {
		return nil, err
	}
	if len(unwritable) > 0 {
		s.record(s.dropped, tally(typed, blocks.Block.String, unwritable), blocksDropped)
	}

	if !s.cfg.Legacy() {
		out.SetBlocks(target)
		return out, nil
	}
	return out, s.encodeLegacy(out, target)
}

// Resolution is the path of one identifier through a session.
type Resolution struct {
	Block blocks.Block
	// Known is false when the reader had no mapping and Block is a
	// custom stand-in.
	Known  bool
	Target blocks.Identifier
	// Stored is false when the target can't hold the block and air is
	// written instead.
	Stored bool
	// Numeric id and data, for legacy targets.
	ID, Data int
}

// Resolve runs one stored identifier through the same steps a section cell
// takes. It isn't counted as unmapped or dropped, but a legacy writer may
// still assign it a placeholder.
func (s *Session) Resolve(id blocks.Identifier) (Resolution, error) {
	var (
		r        Resolution
		resolved blocks.Identifier
	)
	r.Block, resolved, r.Known = s.read(id)
	if !r.Known {
		r.Block = s.custom(resolved)
	}
	target, ok, err := s.write(r.Block)
	if err != nil {
		return r, err
	}
	r.Target, r.Stored = target, ok
	if !ok {
		r.Target = air
	}
	if num, ok := s.writer.(Numbering); ok && s.cfg.Legacy() {
		r.ID, r.Data, _ = num.Numeric(r.Target)
	}
	return r, nil
}

// read resolves a stored identifier, trying remap rules on the numeric form
// and then on the name the id table gives it. It also returns the
// identifier it handed the reader, which is the remapped one when a rule
// fired.
func (s *Session) read(id blocks.Identifier) (blocks.Block, blocks.Identifier, bool) {
	if r, ok := s.remap.Apply(id); ok {
		b, known := s.reader.To(r)
		return b, r, known
	}
	if n, ok := id.Numeric(); ok && s.ids != nil && s.remap.Len() > 0 {
		if name, ok := s.ids.Name(n); ok {
			named := id
			named.ID = name
			if r, ok := s.remap.Apply(named); ok {
				b, known := s.reader.To(r)
				return b, r, known
			}
		}
	}
	b, known := s.reader.To(id)
	return b, id, known
}

// custom stands in for an id the reader doesn't know, under its id table
// name when there is one.
func (s *Session) custom(id blocks.Identifier) blocks.Block {
	name := id.ID
	if n, ok := id.Numeric(); ok && s.ids != nil {
		if known, ok := s.ids.Name(n); ok {
			name = known
		}
	}
	b := blocks.Block{Type: blocks.Custom(name)}
	if len(id.States) > 0 {
		b.Props = maps.Clone(id.States)
	}
	return b
}

func (s *Session) write(b blocks.Block) (blocks.Identifier, bool, error) {
	id, ok, err := s.writer.From(b)
	if err != nil || !ok {
		return id, ok, err
	}
	if s.cfg.Legacy() {
		return id, true, nil
	}
	// flattened palettes hold names only
	if _, numeric := id.Numeric(); numeric {
		return blocks.Identifier{}, false, nil
	}
	if _, hasData := id.Data(); hasData {
		states := maps.Clone(id.States)
		delete(states, blocks.DataState)
		if len(states) == 0 {
			states = nil
		}
		id.States = states
	}
	return id, true, nil
}

func (s *Session) encodeLegacy(out *region.Section, target *palette.Palette[blocks.Identifier]) error {
	num := s.writer.(Numbering)
	nums, err := palette.Map(target, legacyKey, func(id blocks.Identifier) (palette.LegacyIdentifier, error) {
		n, data, ok := num.Numeric(id)
		if !ok {
			s.log.Debug("no numeric id, writing air", "identifier", id)
			return palette.Air, nil
		}
		return palette.LegacyIdentifier{ID: uint16(n), Data: uint8(data)}, nil
	})
	if err != nil {
		return err
	}
	layout, err := palette.ChooseLayout(nums, s.layout == palette.Blocks16)
	if err != nil {
		return err
	}
	if layout > s.layout {
		return errors.Wrapf(palette.ErrUnencodable, "section needs %s, target stores %d bit ids", layout, s.cfg.IDBits)
	}
	out.Arrays, err = palette.EncodeSection(nums, layout)
	return err
}

// tally counts the cells of p whose name is one of names.
func tally[T any](p *palette.Palette[T], name func(T) string, names []string) map[string]int {
	out := make(map[string]int, len(names))
	for _, n := range names {
		out[n] = 0
	}
	for i := 0; i < palette.Size; i++ {
		k := name(p.At(i))
		if _, ok := out[k]; ok {
			out[k]++
		}
	}
	return out
}

func (s *Session) record(m map[string]int, counts map[string]int, metric prometheus.Counter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, n := range counts {
		m[k] += n
		metric.Add(float64(n))
	}
}

// Unmapped returns how many blocks of each stored id the reader couldn't
// resolve so far.
func (s *Session) Unmapped() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.unmapped)
}

// Dropped returns how many blocks of each kind were written as air.
func (s *Session) Dropped() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.dropped)
}

// Flush writes the unmapped counts and placeholder allocations gathered so
// far to the report, and resets the counts.
func (s *Session) Flush() error {
	if s.report == nil {
		return nil
	}
	s.mu.Lock()
	unmapped := s.unmapped
	s.unmapped = map[string]int{}
	s.mu.Unlock()
	for id, n := range unmapped {
		if err := s.report.AddUnmapped(s.ID, id, n); err != nil {
			return err
		}
	}
	if l, ok := s.writer.(*resolver.Legacy); ok {
		return s.report.PutPlaceholders(s.ID, l.Placeholders().Assigned())
	}
	return nil
}
