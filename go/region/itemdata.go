package region

import (
	"encoding/binary"
	"maps"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var ErrNoItemData = errors.New("level.dat has no ItemData")

type itemEntry struct {
	key  string
	hasK bool
	val  int
}

type itemTable struct {
	kind   NbtType
	list   map[int]*itemEntry
	nested bool
	ints   map[string]int
}

func (t *itemTable) entry(i int) *itemEntry {
	if t.list == nil {
		t.list = map[int]*itemEntry{}
	}
	e, ok := t.list[i]
	if !ok {
		e = &itemEntry{val: -1}
		t.list[i] = e
	}
	return e
}

var itemNameReplacer = strings.NewReplacer("\u0001", "", "\u0002", "", "\u0003", "")

// ReadItemData extracts the Forge name to numeric id table from a level.dat,
// gzipped or not. Worlds without FML or Forge data give an empty table.
func ReadItemData(buf []byte) (map[string]int, error) {
	if gzipped(buf) {
		var err error
		if buf, err = Decompress(Gzip, buf); err != nil {
			return nil, errors.Wrap(err, "level.dat")
		}
	}
	metas := map[string]bool{}
	tables := map[[2]string]*itemTable{}

	err := NbtWalk(buf, func(path []string, idxes []int, ty NbtType, value []byte) {
		if len(path) == 0 || path[0] != "FML" && path[0] != "Forge" {
			return
		}
		if len(path) == 1 {
			metas[path[0]] = ty == TagCompound
			return
		}
		if path[1] != "ItemData" && path[1] != "Item Data" {
			return
		}
		id := [2]string{path[0], path[1]}
		t := tables[id]
		if len(path) == 2 {
			t = &itemTable{kind: ty}
			if ty < 0 {
				t.kind = TagList
			}
			tables[id] = t
			return
		}
		if t == nil {
			return
		}
		switch {
		case t.kind == TagList && len(path) == 4 && len(idxes) == 1:
			t.entry(idxes[0]).set(path[3], ty, value)
		case t.kind == TagCompound && len(path) == 3 && path[2] == "ItemData" && ty == TagList:
			t.nested = true
		case t.kind == TagCompound && len(path) == 5 && path[2] == "ItemData" && len(idxes) == 1:
			t.entry(idxes[0]).set(path[4], ty, value)
		case t.kind == TagCompound && len(path) == 3 && ty == TagInt:
			if t.ints == nil {
				t.ints = map[string]int{}
			}
			t.ints[path[2]] = int(int32(binary.BigEndian.Uint32(value)))
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "level.dat")
	}

	out := map[string]int{}
	meta := "FML"
	if !metas[meta] {
		meta = "Forge"
		if !metas[meta] {
			return out, nil
		}
	}
	t := tables[[2]string{meta, "ItemData"}]
	if t == nil {
		t = tables[[2]string{meta, "Item Data"}]
	}
	if t == nil {
		return nil, errors.Wrapf(ErrNoItemData, "under %s", meta)
	}
	switch {
	case t.kind == TagList || t.kind == TagCompound && t.nested:
		for _, i := range slices.Sorted(maps.Keys(t.list)) {
			if e := t.list[i]; e.hasK && e.val >= 0 {
				out[itemNameReplacer.Replace(strings.TrimSpace(e.key))] = e.val
			}
		}
	case t.kind == TagCompound:
		for k, v := range t.ints {
			out[itemNameReplacer.Replace(k)] = v
		}
	default:
		return nil, errors.Errorf("unexpected ItemData tag type %d", t.kind)
	}
	return out, nil
}

func (e *itemEntry) set(name string, ty NbtType, value []byte) {
	switch {
	case name == "K" && ty == TagString:
		e.key, e.hasK = string(value), true
	case name == "V" && ty == TagInt:
		e.val = int(int32(binary.BigEndian.Uint32(value)))
	}
}
