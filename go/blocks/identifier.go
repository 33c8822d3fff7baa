package blocks

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/state"
)

// DataState is the wire state holding a legacy data value.
const DataState = "data"

// Identifier is the untyped wire form of a block: a string id, which may be a
// namespaced name or a decimal legacy number, plus loosely typed states.
type Identifier struct {
	ID     string
	States map[string]state.Value
}

func NewIdentifier(id string) Identifier {
	return Identifier{ID: id}
}

// Data returns the legacy data value, if the identifier carries one.
func (id Identifier) Data() (int, bool) {
	v, ok := id.States[DataState]
	if !ok || v.Kind() != state.KindInt {
		return 0, false
	}
	return v.Int(), true
}

func (id Identifier) WithData(data int) Identifier {
	return id.WithState(DataState, state.Int(data))
}

func (id Identifier) WithState(name string, v state.Value) Identifier {
	states := make(map[string]state.Value, len(id.States)+1)
	maps.Copy(states, id.States)
	states[name] = v
	id.States = states
	return id
}

// Named returns the states other than data.
func (id Identifier) Named() map[string]state.Value {
	out := make(map[string]state.Value, len(id.States))
	for k, v := range id.States {
		if k != DataState {
			out[k] = v
		}
	}
	return out
}

// Numeric reports whether the id is a decimal legacy number.
func (id Identifier) Numeric() (int, bool) {
	n, err := strconv.Atoi(id.ID)
	return n, err == nil && n >= 0
}

func (id Identifier) Equal(o Identifier) bool {
	return id.ID == o.ID && maps.Equal(id.States, o.States)
}

func (id Identifier) String() string {
	if len(id.States) == 0 {
		return id.ID
	}
	parts := make([]string, 0, len(id.States))
	for _, k := range slices.Sorted(maps.Keys(id.States)) {
		parts = append(parts, k+"="+id.States[k].String())
	}
	return id.ID + "[" + strings.Join(parts, ",") + "]"
}

var trailingData = regexp.MustCompile(`^(.+):(\d+)$`)

// ParseIdentifier reads "id", "id:data", "ns:name:data" and
// "ns:name[k=v,...]". States are typed loosely by state.Parse.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	var id Identifier
	if open := strings.IndexByte(s, '['); open >= 0 {
		if !strings.HasSuffix(s, "]") {
			return id, errors.Errorf("unterminated states in %q", s)
		}
		body := s[open+1 : len(s)-1]
		s = s[:open]
		if body != "" {
			id.States = map[string]state.Value{}
			for _, kv := range strings.Split(body, ",") {
				k, v, ok := strings.Cut(kv, "=")
				k, v = strings.TrimSpace(k), strings.TrimSpace(v)
				if !ok || k == "" || v == "" {
					return id, errors.Errorf("bad state %q in %q", kv, s)
				}
				id.States[strings.ToLower(k)] = state.Parse(v)
			}
		}
	}
	if s == "" {
		return id, errors.New("empty identifier")
	}
	if m := trailingData.FindStringSubmatch(s); m != nil {
		data, _ := strconv.Atoi(m[2])
		if data > 15 {
			return id, errors.Errorf("data %d out of range in %q", data, s)
		}
		s = m[1]
		id = id.WithData(data)
	}
	id.ID = strings.ToLower(s)
	return id, nil
}

// ParseMappingLine reads one "a -> b [-> c...]" line. Blank and comment
// lines give a nil slice.
func ParseMappingLine(line string) ([]Identifier, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	parts := strings.Split(line, "->")
	if len(parts) < 2 {
		return nil, errors.Errorf("no mapping arrow in %q", line)
	}
	out := make([]Identifier, len(parts))
	for i, p := range parts {
		id, err := ParseIdentifier(p)
		if err != nil {
			return nil, errors.Wrapf(err, "mapping %q", line)
		}
		out[i] = id
	}
	return out, nil
}
