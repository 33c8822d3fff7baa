package resolver

import (
	_ "embed"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/rmmh/chunkport/go/blocks"
)

//go:embed ids.yaml
var vanillaIDsYAML []byte

// IDs translates between legacy names and numeric ids for one session.
// It is immutable; With returns an extended copy.
type IDs struct {
	byName     map[string]int
	byID       map[int]string
	maxVanilla int
}

// VanillaIDs loads the ids every release up to v knows about.
func VanillaIDs(v blocks.Version) (*IDs, error) {
	var sections map[string]map[string]int
	if err := yaml.Unmarshal(vanillaIDsYAML, &sections); err != nil {
		return nil, errors.Wrap(err, "embedded id table")
	}
	ids := &IDs{byName: map[string]int{}, byID: map[int]string{}}
	for sec, names := range sections {
		since, err := blocks.ParseVersion(sec)
		if err != nil {
			return nil, errors.Wrapf(err, "embedded id table section %q", sec)
		}
		if v.Less(since) {
			continue
		}
		for name, id := range names {
			ids.add(blocks.Namespace+name, id)
		}
	}
	if len(ids.byID) > 0 {
		ids.maxVanilla = lo.Max(lo.Keys(ids.byID))
	}
	return ids, nil
}

func (ids *IDs) add(name string, id int) {
	if old, ok := ids.byName[name]; ok {
		delete(ids.byID, old)
	}
	if prev, ok := ids.byID[id]; ok {
		delete(ids.byName, prev)
	}
	ids.byName[name] = id
	ids.byID[id] = name
}

func qualify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.Contains(name, ":") {
		return blocks.Namespace + name
	}
	return name
}

// With returns a copy with overrides applied. Overrides don't move the
// vanilla ceiling.
func (ids *IDs) With(overrides map[string]int) *IDs {
	out := &IDs{
		byName:     make(map[string]int, len(ids.byName)+len(overrides)),
		byID:       make(map[int]string, len(ids.byID)+len(overrides)),
		maxVanilla: ids.maxVanilla,
	}
	for name, id := range ids.byName {
		out.add(name, id)
	}
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		out.add(qualify(name), overrides[name])
	}
	return out
}

// ID finds the numeric id for a name. Decimal strings are taken as they
// are and names without a namespace get the vanilla one.
func (ids *IDs) ID(name string) (int, bool) {
	if n, err := strconv.Atoi(name); err == nil {
		return n, n >= 0
	}
	id, ok := ids.byName[qualify(name)]
	return id, ok
}

func (ids *IDs) Name(id int) (string, bool) {
	name, ok := ids.byID[id]
	return name, ok
}

// Taken reports whether any name holds id.
func (ids *IDs) Taken(id int) bool {
	_, ok := ids.byID[id]
	return ok
}

// MaxVanilla is the highest id the vanilla table assigns.
func (ids *IDs) MaxVanilla() int { return ids.maxVanilla }

func (ids *IDs) Len() int { return len(ids.byName) }
