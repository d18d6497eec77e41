package envelope

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var (
	ErrCompressionFailed   = errors.New("envelope: compression failed")
	ErrDecompressionFailed = errors.New("envelope: decompression failed")
)

// DefaultMaxDecompressed bounds how large a compressed payload may grow in Open.
const DefaultMaxDecompressed = 64 << 20

// CompressionLevel controls whether and how hard Seal compresses.
type CompressionLevel int

const (
	CompressionNone    CompressionLevel = iota // Never compress
	CompressionFast                            // Fastest, lower ratio
	CompressionDefault                         // Balanced
	CompressionBest                            // Best ratio, slower
)

func (l CompressionLevel) String() string {
	switch l {
	case CompressionNone:
		return "none"
	case CompressionFast:
		return "fast"
	case CompressionDefault:
		return "default"
	case CompressionBest:
		return "best"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseCompressionLevel maps the names accepted in configuration files to a
// CompressionLevel. The empty string means CompressionNone.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "fast":
		return CompressionFast, nil
	case "default":
		return CompressionDefault, nil
	case "best":
		return CompressionBest, nil
	}
	return CompressionNone, fmt.Errorf("envelope: unknown compression level %q", s)
}

func (l CompressionLevel) lz4Level() lz4.CompressionLevel {
	switch l {
	case CompressionFast:
		return lz4.Fast
	case CompressionBest:
		return lz4.Level9
	default:
		return lz4.Level4
	}
}

var lz4Writers = sync.Pool{
	New: func() interface{} { return lz4.NewWriter(nil) },
}

var lz4Readers = sync.Pool{
	New: func() interface{} { return lz4.NewReader(nil) },
}

// Compress returns data as a single LZ4 frame.
func Compress(data []byte, level CompressionLevel) ([]byte, error) {
	w := lz4Writers.Get().(*lz4.Writer)
	defer lz4Writers.Put(w)

	var frame bytes.Buffer
	w.Reset(&frame)
	if err := w.Apply(lz4.CompressionLevelOption(level.lz4Level())); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailed, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailed, err)
	}
	return frame.Bytes(), nil
}

// Decompress expands an LZ4 frame. Output longer than limit bytes is
// rejected with ErrDecompressionFailed; a limit <= 0 selects
// DefaultMaxDecompressed.
func Decompress(frame []byte, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxDecompressed
	}
	r := lz4Readers.Get().(*lz4.Reader)
	defer lz4Readers.Put(r)
	r.Reset(bytes.NewReader(frame))

	var out bytes.Buffer
	n, err := io.Copy(&out, io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, ErrDecompressionFailed
	}
	if n > int64(limit) {
		return nil, fmt.Errorf("%w: output exceeds %d bytes", ErrDecompressionFailed, limit)
	}
	return out.Bytes(), nil
}

// shrink compresses payload when the level allows it and the result is
// strictly smaller. It reports whether the returned bytes are compressed.
func shrink(payload []byte, level CompressionLevel) ([]byte, bool, error) {
	if level == CompressionNone || len(payload) == 0 {
		return payload, false, nil
	}
	z, err := Compress(payload, level)
	if err != nil {
		return payload, false, err
	}
	if len(z) >= len(payload) {
		return payload, false, nil
	}
	return z, true, nil
}
