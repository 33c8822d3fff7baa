package palette

// Size is the number of cells in one 16x16x16 section.
const Size = 16 * 16 * 16

// Index is the linear cell order shared by every packed array.
func Index(x, y, z int) int { return y<<8 | z<<4 | x }

// Coords inverts Index.
func Coords(i int) (x, y, z int) { return i & 0xf, (i >> 8) & 0xf, (i >> 4) & 0xf }

// KeyFunc maps a value to a comparable key. Values with equal keys are
// stored once.
type KeyFunc[T any] func(T) any

// Palette is a section volume that stores each distinct value once and
// addresses it per cell. A Palette belongs to one goroutine; even reads may
// compact it.
type Palette[T any] struct {
	key    KeyFunc[T]
	values []T
	lookup map[any]uint16
	cells  [Size]uint16
}

// Filled makes a palette holding v in every cell.
func Filled[T any](v T, key KeyFunc[T]) *Palette[T] {
	p := &Palette[T]{key: key, lookup: map[any]uint16{}}
	p.intern(v)
	return p
}

func FilledComparable[T comparable](v T) *Palette[T] {
	return Filled(v, func(v T) any { return v })
}

func (p *Palette[T]) intern(v T) uint16 {
	k := p.key(v)
	if i, ok := p.lookup[k]; ok {
		return i
	}
	if len(p.values) > Size {
		p.compact()
	}
	i := uint16(len(p.values))
	p.values = append(p.values, v)
	p.lookup[k] = i
	return i
}

// compact drops values no cell refers to, keeping first-use order.
func (p *Palette[T]) compact() {
	remap := make([]int, len(p.values))
	for i := range remap {
		remap[i] = -1
	}
	values := make([]T, 0, len(p.values))
	for i, c := range p.cells {
		if remap[c] < 0 {
			remap[c] = len(values)
			values = append(values, p.values[c])
		}
		p.cells[i] = uint16(remap[c])
	}
	p.values = values
	clear(p.lookup)
	for i, v := range values {
		p.lookup[p.key(v)] = uint16(i)
	}
}

func (p *Palette[T]) Get(x, y, z int) T { return p.At(Index(x, y, z)) }

func (p *Palette[T]) Set(x, y, z int, v T) { p.SetAt(Index(x, y, z), v) }

func (p *Palette[T]) At(i int) T { return p.values[p.cells[i]] }

func (p *Palette[T]) SetAt(i int, v T) { p.cells[i] = p.intern(v) }

// Values lists the distinct values in use, in order of first cell.
func (p *Palette[T]) Values() []T {
	p.compact()
	out := make([]T, len(p.values))
	copy(out, p.values)
	return out
}

// Len is the number of distinct values in use.
func (p *Palette[T]) Len() int {
	p.compact()
	return len(p.values)
}

// Equal compares cell by cell.
func (p *Palette[T]) Equal(o *Palette[T]) bool {
	for i := range p.cells {
		if p.key(p.At(i)) != o.key(o.At(i)) {
			return false
		}
	}
	return true
}

// Map builds a palette of f's results with the same cell layout. f runs
// once per distinct value; values f merges share one entry in the result.
func Map[T, U any](p *Palette[T], key KeyFunc[U], f func(T) (U, error)) (*Palette[U], error) {
	p.compact()
	out := &Palette[U]{key: key, lookup: make(map[any]uint16, len(p.values))}
	remap := make([]uint16, len(p.values))
	for i, v := range p.values {
		u, err := f(v)
		if err != nil {
			return nil, err
		}
		remap[i] = out.intern(u)
	}
	for i, c := range p.cells {
		out.cells[i] = remap[c]
	}
	return out, nil
}
