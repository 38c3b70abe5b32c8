// Package bytesrc provides the byte-source contract the NRBF decoder
// reads from, plus a handful of concrete sources and an optional
// hex-capture decorator.
//
// The decoder never needs lookahead beyond the current tag byte and never
// seeks, so the contract is deliberately narrow: fill a buffer or fail.
package bytesrc

import (
	"bufio"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/halvorsen/nrbf/internal/pool"
)

// Source is the minimal read contract the decoder relies on. ReadFull
// fills buf completely or returns an error (io.EOF if the stream is
// simply exhausted, io.ErrUnexpectedEOF if it ended mid-read).
type Source interface {
	ReadFull(buf []byte) error
	ReadByte() (byte, error)
}

// readerSource adapts any io.Reader into a Source.
type readerSource struct {
	r   io.Reader
	off int64
}

// FromReader wraps an arbitrary io.Reader as a Source.
func FromReader(r io.Reader) Source {
	return &readerSource{r: bufio.NewReader(r)}
}

func (s *readerSource) ReadFull(buf []byte) error {
	n, err := io.ReadFull(s.r, buf)
	s.off += int64(n)
	return err
}

func (s *readerSource) ReadByte() (byte, error) {
	var b [1]byte
	if err := s.ReadFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// FromFile opens name and returns a Source backed by buffered file reads.
func FromFile(name string) (Source, func() error, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return FromReader(f), f.Close, nil
}

// FromMmap memory-maps name read-only and returns a Source over the
// mapped bytes, avoiding a buffered-reader copy for large capture files.
func FromMmap(name string) (Source, func() error, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	closer := func() error {
		unmapErr := data.Unmap()
		closeErr := f.Close()
		if unmapErr != nil {
			return unmapErr
		}
		return closeErr
	}

	return &readerSource{r: byteSliceReader(data)}, closer, nil
}

func byteSliceReader(b []byte) io.Reader {
	return &sliceReader{b: b}
}

type sliceReader struct {
	b   []byte
	pos int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.b) {
		return 0, io.EOF
	}
	n := copy(p, s.b[s.pos:])
	s.pos += n
	return n, nil
}

// FromZstd wraps r with transparent zstd decompression before framing it
// as a Source, for capture files stored zstd-compressed.
func FromZstd(r io.Reader) (Source, func() error, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return FromReader(dec), func() error { dec.Close(); return nil }, nil
}

// FromLZ4 wraps r with transparent LZ4 decompression before framing it as
// a Source.
func FromLZ4(r io.Reader) Source {
	return FromReader(lz4.NewReader(r))
}

// HexCapture decorates a Source, mirroring every successful ReadFull/
// ReadByte into w as "<decimal offset> <lowercase two-hex-digit bytes>\n",
// one line per read call.
type HexCapture struct {
	src Source
	w   io.Writer
	off int64
}

// NewHexCapture wraps src so every successful read is also logged to w.
func NewHexCapture(src Source, w io.Writer) *HexCapture {
	return &HexCapture{src: src, w: w}
}

const hexDigits = "0123456789abcdef"

func (h *HexCapture) log(buf []byte) {
	line := pool.GetHexBuffer()
	defer pool.PutHexBuffer(line)
	line.B = appendDecimal(line.B, h.off)
	line.B = append(line.B, ' ')
	for _, b := range buf {
		line.B = append(line.B, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	line.B = append(line.B, '\n')
	h.w.Write(line.B)
	h.off += int64(len(buf))
}

func appendDecimal(dst []byte, v int64) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	start := len(dst)
	for v > 0 {
		dst = append(dst, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	end := len(dst) - 1
	for start < end {
		dst[start], dst[end] = dst[end], dst[start]
		start++
		end--
	}
	return dst
}

func (h *HexCapture) ReadFull(buf []byte) error {
	if err := h.src.ReadFull(buf); err != nil {
		return err
	}
	h.log(buf)
	return nil
}

func (h *HexCapture) ReadByte() (byte, error) {
	b, err := h.src.ReadByte()
	if err != nil {
		return 0, err
	}
	h.log([]byte{b})
	return b, nil
}
