package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/region"
	"github.com/rmmh/chunkport/go/resolver"
	"github.com/rmmh/chunkport/go/task"
)

// Output receives converted chunks from any number of workers.
type Output interface {
	Put(p region.Payload) error
}

// Run converts chunks on a tracked task of cfg.Workers workers, handing
// each result to out. Every chunk is a Higher sub-task that queues a Low
// one for light and serialization. Chunks that fail are reported and
// skipped; running out of placeholder ids fails the task. Cancelling ctx
// cancels the task.
func (s *Session) Run(ctx context.Context, name string, chunks []region.Payload, out Output) *task.Tracked {
	t := task.New(name, s.cfg.Workers, task.WithLogger(s.log))
	stop := context.AfterFunc(ctx, t.Cancel)
	go func() {
		<-t.Done()
		stop()
	}()
	for _, p := range chunks {
		err := t.Submit(fmt.Sprintf("chunk %d,%d", p.X, p.Z), task.Higher, func(ctx context.Context) error {
			return s.runChunk(ctx, t, p, out)
		})
		if err != nil {
			s.log.Debug("stopped submitting", "err", err)
			break
		}
	}
	t.Close()
	return t
}

func (s *Session) runChunk(ctx context.Context, t *task.Tracked, p region.Payload, out Output) error {
	if p.Err != nil {
		return s.fail(p, p.Err)
	}
	in, err := region.ReadChunk(p.Data)
	if err != nil {
		return s.fail(p, err)
	}
	c, err := s.convertBlocks(ctx, in)
	switch {
	case errors.Is(err, ErrProtoChunk):
		s.log.Debug("skipping chunk", "x", p.X, "z", p.Z, "err", err)
		chunksConverted.WithLabelValues("skipped").Inc()
		return nil
	case errors.Is(err, resolver.ErrPlaceholdersExhausted), ctx.Err() != nil:
		return err
	case err != nil:
		return s.fail(p, err)
	}
	return t.Submit(fmt.Sprintf("light %d,%d", p.X, p.Z), task.Low, func(context.Context) error {
		if s.cfg.Lighting {
			s.copyLight(in, c)
		}
		buf, err := region.WriteChunk(c)
		if err != nil {
			return s.fail(p, err)
		}
		chunksConverted.WithLabelValues("converted").Inc()
		return out.Put(region.Payload{Index: p.Index, X: p.X, Z: p.Z, Timestamp: p.Timestamp, Data: buf})
	})
}

// fail records a chunk that couldn't be converted; the run carries on.
func (s *Session) fail(p region.Payload, err error) error {
	s.log.Warn("chunk failed", "x", p.X, "z", p.Z, "err", err)
	chunksConverted.WithLabelValues("failed").Inc()
	if s.report == nil {
		return nil
	}
	return s.report.AddFailure(s.ID, p.X, p.Z, err, p.Data)
}

// RegionOutput groups converted chunks by region and writes the region
// files on Flush.
type RegionOutput struct {
	dir  string
	kind region.Compression

	mu      sync.Mutex
	regions map[[2]int][]region.Payload
}

func NewRegionOutput(dir string, kind region.Compression) *RegionOutput {
	return &RegionOutput{dir: dir, kind: kind, regions: map[[2]int][]region.Payload{}}
}

func (o *RegionOutput) Put(p region.Payload) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := [2]int{p.X >> 5, p.Z >> 5}
	o.regions[k] = append(o.regions[k], p)
	return nil
}

// Flush writes every region collected so far and forgets them. It returns
// the paths written.
func (o *RegionOutput) Flush() ([]string, error) {
	o.mu.Lock()
	regions := o.regions
	o.regions = map[[2]int][]region.Payload{}
	o.mu.Unlock()

	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, chunks := range regions {
		slices.SortFunc(chunks, func(a, b region.Payload) int { return a.Index - b.Index })
		path := filepath.Join(o.dir, region.RegionName(chunks[0].X, chunks[0].Z))
		if err := region.WriteRegion(path, chunks, o.kind); err != nil {
			return written, errors.Wrapf(err, "writing %s", path)
		}
		written = append(written, path)
	}
	slices.Sort(written)
	return written, nil
}
