package region

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/pkg/errors"
)

const sectorSize = 4096

var regionMatchRE = regexp.MustCompile(`r\.(-?\d+)\.(-?\d+)\.mc[ar]$`)

// Region is an open region file header; chunk payloads are read lazily.
type Region struct {
	path       string
	rx, rz     int
	offsets    [1024]uint32
	timestamps [1024]uint32
	log        *slog.Logger
}

func (r *Region) Rx() int        { return r.rx }
func (r *Region) Rz() int        { return r.rz }
func (r *Region) Path() string   { return r.path }
func (r *Region) Name() string   { return filepath.Base(r.path) }
func (r *Region) Has(i int) bool { return r.offsets[i] != 0 }

func OpenRegion(path string, log *slog.Logger) (*Region, error) {
	if log == nil {
		log = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := &Region{path: path, log: log.With("region", filepath.Base(path))}
	if m := regionMatchRE.FindStringSubmatch(path); m != nil {
		r.rx, _ = strconv.Atoi(m[1])
		r.rz, _ = strconv.Atoi(m[2])
	} else {
		r.log.Warn("region file doesn't match expected r.X.Z format")
	}

	var buf [2 * sectorSize]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", path)
	}
	for i := 0; i < 1024; i++ {
		r.offsets[i] = binary.BigEndian.Uint32(buf[i*4:])
		r.timestamps[i] = binary.BigEndian.Uint32(buf[sectorSize+i*4:])
	}
	return r, nil
}

// Chunks lists the present chunk indexes in file order.
func (r *Region) Chunks() []int {
	seq := make([]int, 0, 1024)
	for i := 0; i < 1024; i++ {
		if r.offsets[i] != 0 {
			seq = append(seq, i)
		}
	}
	slices.SortFunc(seq, func(a, b int) int { return int(r.offsets[a]) - int(r.offsets[b]) })
	return seq
}

// Payload is one chunk as stored in a region file.
type Payload struct {
	Index     int
	X, Z      int
	Timestamp uint32
	// Data is the decompressed NBT. When Err is set, Data holds whatever
	// raw bytes could be read instead.
	Data []byte
	Err  error
}

func (r *Region) coords(i int) (int, int) {
	return i&31 | r.rx<<5, i>>5 | r.rz<<5
}

// ReadChunks reads every present chunk in file order. A chunk that can't
// be decoded is still passed to fn, with Err set; fn returning an error
// stops the read.
func (r *Region) ReadChunks(fn func(Payload) error) error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	maxSectors := 0
	for _, offset := range r.offsets {
		maxSectors = max(maxSectors, int(offset&255))
	}
	chunkBuf := make([]byte, sectorSize*maxSectors)

	for _, i := range r.Chunks() {
		p := Payload{Index: i, Timestamp: r.timestamps[i]}
		p.X, p.Z = r.coords(i)
		paddedLen := sectorSize * int(r.offsets[i]&0xff)
		n, err := f.ReadAt(chunkBuf[:paddedLen], int64(r.offsets[i]>>8)*sectorSize)
		if err != nil && err != io.EOF {
			return errors.Wrapf(err, "reading chunk %d,%d", p.X, p.Z)
		}
		// a truncated file leaves the previous chunk's bytes past n
		sector := chunkBuf[:n]
		p.Data, p.Err = payload(sector)
		if p.Err != nil {
			r.log.Warn("unreadable chunk", "x", p.X, "z", p.Z, "err", p.Err)
			p.Data = slices.Clone(sector)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func payload(sector []byte) ([]byte, error) {
	if len(sector) < 5 {
		return nil, errors.New("chunk sector too short")
	}
	chunkLen := int(binary.BigEndian.Uint32(sector))
	if chunkLen < 1 || chunkLen+4 > len(sector) {
		return nil, errors.Errorf("chunk length %d exceeds its %d sector bytes", chunkLen, len(sector))
	}
	return Decompress(Compression(sector[4]), sector[5:chunkLen+4])
}

// WriteRegion lays out a region file holding chunks, each compressed with
// kind. Payload.Data must be uncompressed NBT.
func WriteRegion(path string, chunks []Payload, kind Compression) error {
	var header [2 * sectorSize]byte
	body := bytes.Buffer{}
	sector := 2
	for _, c := range chunks {
		if c.Index < 0 || c.Index >= 1024 {
			return errors.Errorf("chunk index %d out of range", c.Index)
		}
		data, err := Compress(kind, c.Data)
		if err != nil {
			return errors.Wrapf(err, "compressing chunk %d", c.Index)
		}
		n := (len(data) + 5 + sectorSize - 1) / sectorSize
		if n > 255 {
			return errors.Errorf("chunk %d needs %d sectors", c.Index, n)
		}
		body.Write(binary.BigEndian.AppendUint32(nil, uint32(len(data)+1)))
		body.WriteByte(byte(kind))
		body.Write(data)
		body.Write(make([]byte, n*sectorSize-len(data)-5))
		binary.BigEndian.PutUint32(header[c.Index*4:], uint32(sector<<8|n))
		binary.BigEndian.PutUint32(header[sectorSize+c.Index*4:], c.Timestamp)
		sector += n
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(header[:], body.Bytes()...), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// RegionName is the file name of the region holding chunk x, z.
func RegionName(x, z int) string {
	return "r." + strconv.Itoa(x>>5) + "." + strconv.Itoa(z>>5) + ".mca"
}

// ChunkIndex is the header slot of chunk x, z within its region.
func ChunkIndex(x, z int) int {
	return x&31 | (z&31)<<5
}
