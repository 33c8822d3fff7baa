package resolver

import (
	"bufio"
	"io"
	"maps"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/state"
)

type remapRule struct {
	from blocks.Identifier
	to   blocks.Identifier
}

func (r remapRule) matches(id blocks.Identifier) bool {
	if r.from.ID != id.ID {
		return false
	}
	for k, v := range r.from.States {
		if got, ok := id.States[k]; !ok || got != v {
			return false
		}
	}
	return true
}

// Remapper applies user supplied "old[k=v] -> new[k=v]" rewrites to wire
// identifiers. The first matching rule wins.
type Remapper struct {
	rules []remapRule
}

// LoadRemapper reads one rule per line. In a chain "a -> b -> c" every
// element maps to the last.
func LoadRemapper(r io.Reader) (*Remapper, error) {
	m := &Remapper{}
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		ids, err := blocks.ParseMappingLine(sc.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
		if len(ids) == 0 {
			continue
		}
		target := ids[len(ids)-1]
		for _, from := range ids[:len(ids)-1] {
			m.rules = append(m.rules, remapRule{from: from, to: target})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading remappings")
	}
	return m, nil
}

func (m *Remapper) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Apply rewrites id. States the rule didn't match on carry over and take
// precedence over the rule's output states.
func (m *Remapper) Apply(id blocks.Identifier) (blocks.Identifier, bool) {
	if m == nil {
		return id, false
	}
	rule, ok := lo.Find(m.rules, func(r remapRule) bool { return r.matches(id) })
	if !ok {
		return id, false
	}
	states := maps.Clone(rule.to.States)
	if states == nil {
		states = map[string]state.Value{}
	}
	for k, v := range id.States {
		if _, matched := rule.from.States[k]; !matched {
			states[k] = v
		}
	}
	out := blocks.Identifier{ID: rule.to.ID}
	if len(states) > 0 {
		out.States = states
	}
	return out, true
}
