package region

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type NbtType int

const (
	TagEnd = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var ErrTruncated = errors.New("truncated nbt")

type nbtList struct {
	depth  int
	ty     NbtType
	length int
	idx    int
}

// fixed payload widths of the scalar tags
var scalarLen = [...]int{TagByte: 1, TagShort: 2, TagInt: 4, TagLong: 8, TagFloat: 4, TagDouble: 8}

var elemLen = [...]int{TagByteArray: 1, TagIntArray: 4, TagLongArray: 8}

// NbtWalk is a stream-oriented zero-copy nbt parser. value aliases buf, so
// callers must copy anything they keep. Lists of scalars are reported once
// with the negated element type; other lists are announced as TagList with
// a nil value before their elements. The root tag's name is not part of path.
func NbtWalk(buf []byte, cb func(path []string, idxes []int, ty NbtType, value []byte)) error {
	path := []string{}
	idxes := []int{}
	listStack := []nbtList{}
	depth := 0
	o := 0
	take := func(n int) ([]byte, error) {
		if n < 0 || o+n > len(buf) {
			return nil, errors.Wrapf(ErrTruncated, "need %d bytes at offset %d", n, o)
		}
		v := buf[o : o+n]
		o += n
		return v, nil
	}
	count := func(width int) (int, error) {
		b, err := take(width)
		if err != nil {
			return 0, err
		}
		if width == 2 {
			return int(binary.BigEndian.Uint16(b)), nil
		}
		n := int(int32(binary.BigEndian.Uint32(b)))
		if n < 0 {
			return 0, errors.Errorf("negative length %d at offset %d", n, o-4)
		}
		return n, nil
	}

	var ty NbtType
	for o < len(buf) {
		if len(listStack) > 0 && listStack[len(listStack)-1].depth == depth {
			lt := &listStack[len(listStack)-1]
			lt.idx++
			if lt.idx > lt.length {
				listStack = listStack[:len(listStack)-1]
				depth--
				idxes = idxes[:len(listStack)]
				continue
			}
			ty = lt.ty
			path = append(path[:depth], strconv.Itoa(lt.idx-1))
			idxes = append(idxes[:len(listStack)-1], lt.idx-1)
		} else {
			ty = NbtType(buf[o])
			o++
			if ty == TagEnd {
				depth--
				if depth < 0 {
					return errors.Errorf("unexpected end tag at offset %d", o-1)
				}
				if depth == 0 {
					return nil
				}
				continue
			}
			n, err := count(2)
			if err != nil {
				return err
			}
			name, err := take(n)
			if err != nil {
				return err
			}
			path = append(path[:depth], string(name))
		}
		if len(path) == 0 {
			return errors.New("nbt root is not a named tag")
		}
		jpath := strings.Join(path[1:], ".")
		switch ty {
		case TagCompound:
			cb(path[1:], idxes, ty, nil)
			depth++
		case TagByte, TagShort, TagInt, TagLong, TagFloat, TagDouble:
			v, err := take(scalarLen[ty])
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			cb(path[1:], idxes, ty, v)
		case TagByteArray, TagIntArray, TagLongArray:
			n, err := count(4)
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			v, err := take(n * elemLen[ty])
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			cb(path[1:], idxes, ty, v)
		case TagString:
			n, err := count(2)
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			v, err := take(n)
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			cb(path[1:], idxes, ty, v)
		case TagList:
			h, err := take(1)
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			lty := NbtType(h[0])
			n, err := count(4)
			if err != nil {
				return errors.Wrap(err, jpath)
			}
			switch {
			case lty >= TagByte && lty <= TagDouble:
				v, err := take(n * scalarLen[lty])
				if err != nil {
					return errors.Wrap(err, jpath)
				}
				cb(path[1:], idxes, -lty, v)
			case lty == TagString:
				// e.g. Level.TileEntities.Items.tag.pages
				start := o
				for i := 0; i < n; i++ {
					sl, err := count(2)
					if err != nil {
						return errors.Wrap(err, jpath)
					}
					if _, err := take(sl); err != nil {
						return errors.Wrap(err, jpath)
					}
				}
				cb(path[1:], idxes, -lty, buf[start:o])
			case lty == TagCompound || lty == TagList || lty >= TagByteArray && lty <= TagLongArray:
				cb(path[1:], idxes, TagList, nil)
				if n > 0 {
					depth++
					listStack = append(listStack, nbtList{depth: depth, ty: lty, length: n})
				}
			case n > 0:
				// empty lists are often typed TagEnd
				return errors.Errorf("unhandled TAG_List type: %d at %s (len %d)", lty, jpath, n)
			default:
				cb(path[1:], idxes, TagList, nil)
			}
		default:
			return errors.Errorf("unhandled nbt tag type: %d at %s", ty, jpath)
		}
	}
	if depth > 0 || len(listStack) > 0 {
		return errors.Wrap(ErrTruncated, "unterminated compound")
	}
	return nil
}

type nbtFrame struct {
	list bool
	left int
}

// NbtWriter builds an uncompressed NBT document. Tags written directly
// inside a list lose their names; lists close themselves once their
// declared number of elements has been written.
type NbtWriter struct {
	buf    bytes.Buffer
	frames []nbtFrame
}

func (w *NbtWriter) Bytes() []byte { return w.buf.Bytes() }

func (w *NbtWriter) header(ty NbtType, name string) {
	if n := len(w.frames); n > 0 && w.frames[n-1].list {
		w.frames[n-1].left--
		return
	}
	w.buf.WriteByte(byte(ty))
	w.str(name)
}

func (w *NbtWriter) str(s string) {
	w.buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(s))))
	w.buf.WriteString(s)
}

func (w *NbtWriter) u32(v uint32) {
	w.buf.Write(binary.BigEndian.AppendUint32(nil, v))
}

// done pops every list whose elements are all written.
func (w *NbtWriter) done() {
	for n := len(w.frames); n > 0 && w.frames[n-1].list && w.frames[n-1].left == 0; n = len(w.frames) {
		w.frames = w.frames[:n-1]
	}
}

func (w *NbtWriter) Compound(name string) {
	w.header(TagCompound, name)
	w.frames = append(w.frames, nbtFrame{})
}

// End closes the innermost compound.
func (w *NbtWriter) End() {
	w.buf.WriteByte(TagEnd)
	w.frames = w.frames[:len(w.frames)-1]
	w.done()
}

func (w *NbtWriter) List(name string, elem NbtType, n int) {
	w.header(TagList, name)
	if n == 0 {
		elem = TagEnd
	}
	w.buf.WriteByte(byte(elem))
	w.u32(uint32(n))
	if n == 0 {
		w.done()
		return
	}
	w.frames = append(w.frames, nbtFrame{list: true, left: n})
}

func (w *NbtWriter) Byte(name string, v int8) {
	w.header(TagByte, name)
	w.buf.WriteByte(byte(v))
	w.done()
}

func (w *NbtWriter) Int(name string, v int32) {
	w.header(TagInt, name)
	w.u32(uint32(v))
	w.done()
}

func (w *NbtWriter) String(name, v string) {
	w.header(TagString, name)
	w.str(v)
	w.done()
}

func (w *NbtWriter) ByteArray(name string, v []byte) {
	w.header(TagByteArray, name)
	w.u32(uint32(len(v)))
	w.buf.Write(v)
	w.done()
}

// LongArray writes v, which must already hold big-endian longs.
func (w *NbtWriter) LongArray(name string, v []byte) {
	w.header(TagLongArray, name)
	w.u32(uint32(len(v) / 8))
	w.buf.Write(v[:len(v)&^7])
	w.done()
}
