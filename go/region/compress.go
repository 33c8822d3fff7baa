package region

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Compression is the scheme byte stored before each chunk payload.
type Compression byte

const (
	Gzip         Compression = 1
	Zlib         Compression = 2
	Uncompressed Compression = 3
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	case Uncompressed:
		return "none"
	}
	return fmt.Sprintf("compression(%d)", byte(c))
}

var ErrCompression = errors.New("unknown compression")

// Decompress never returns a slice aliasing payload.
func Decompress(kind Compression, payload []byte) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch kind {
	case Gzip:
		r, err = gzip.NewReader(bytes.NewReader(payload))
	case Zlib:
		r, err = zlib.NewReader(bytes.NewReader(payload))
	case Uncompressed:
		return slices.Clone(payload), nil
	default:
		return nil, errors.Wrapf(ErrCompression, "type %d", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s stream", kind)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "inflating %s", kind)
	}
	return out, nil
}

func Compress(kind Compression, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch kind {
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Zlib:
		w = zlib.NewWriter(&buf)
	case Uncompressed:
		return data, nil
	default:
		return nil, errors.Wrapf(ErrCompression, "type %d", kind)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gzipped reports whether b starts with the gzip magic, as level.dat does.
func gzipped(b []byte) bool {
	return len(b) > 2 && b[0] == 0x1f && b[1] == 0x8b
}
