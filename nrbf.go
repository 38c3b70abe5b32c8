// Package nrbf decodes the .NET Remoting Binary Format (MS-NRBF) into an
// in-memory record graph, with pretty-printing and symbolic path-based
// navigation over the decoded result.
//
// # Core Features
//
//   - Streaming, single-pass decode of a complete record graph
//   - Forward and backward object reference resolution
//   - Multi-rank array decoding with row-major coordinate indexing
//   - Indented text dump of a decoded stream
//   - Path-based navigation: "stream/class/member/..." down to a scalar
//
// # Basic Usage
//
// Decoding a .NET remoting stream read from a file:
//
//	import "github.com/halvorsen/nrbf"
//
//	d, err := nrbf.OpenFile(context.Background(), "payload.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(nrbf.Dump(d))
//
// Reading a single scalar by path:
//
//	acc, err := nrbf.Get(d, "0/MyApp.Order/Total")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	total, err := acc.Double()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// wire/* subpackages, which can be used directly for finer control
// over the byte source, linking, and rendering.
package nrbf

import (
	"context"
	"io"
	"strings"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/dump"
	"github.com/halvorsen/nrbf/wire/link"
	"github.com/halvorsen/nrbf/wire/path"
	"github.com/halvorsen/nrbf/wire/record"
	"github.com/halvorsen/nrbf/wire/stream"
)

// Deserializer is the decoded result of one byte source: every stream it
// contained, with cross-references already linked.
type Deserializer = stream.Deserializer

// Open decodes every stream from r and links their references.
//
// Linking runs per-stream: a reference in stream N can only resolve
// against an object-id defined in stream N. Decode errors are returned
// alongside whatever streams were successfully decoded before the
// failure, per the partial-result contract of wire/stream.
func Open(ctx context.Context, r io.Reader) (*Deserializer, error) {
	src := bytesrc.FromReader(r)
	return decodeAndLink(ctx, src)
}

// OpenFile decodes a .NET remoting stream from a file on disk.
func OpenFile(ctx context.Context, name string) (*Deserializer, error) {
	src, closeFile, err := bytesrc.FromFile(name)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	return decodeAndLink(ctx, src)
}

// OpenMmap decodes a .NET remoting stream memory-mapped from disk,
// avoiding a full read into the heap for very large payloads.
func OpenMmap(ctx context.Context, name string) (*Deserializer, error) {
	src, closeMap, err := bytesrc.FromMmap(name)
	if err != nil {
		return nil, err
	}
	defer closeMap()

	return decodeAndLink(ctx, src)
}

func decodeAndLink(ctx context.Context, src bytesrc.Source) (*Deserializer, error) {
	d, err := stream.Decode(ctx, src)
	if err != nil {
		return d, err
	}

	for _, s := range d.Streams {
		if _, err := link.Link(s); err != nil {
			return d, err
		}
	}

	return d, nil
}

// Dump renders every stream in d as indented text, one
// "--- Record: N ---" block per record that no other record references.
func Dump(d *Deserializer) string {
	var sb strings.Builder
	for _, s := range d.Streams {
		sb.WriteString(dump.Text(s))
	}
	return sb.String()
}

// DumpStyled renders d like Dump but with ANSI styling applied, for a
// terminal consumer.
func DumpStyled(w io.Writer, d *Deserializer) error {
	for _, s := range d.Streams {
		if err := dump.WriteStyled(w, s); err != nil {
			return err
		}
	}
	return nil
}

// Get resolves a symbolic path ("stream/class/member/...") against d
// and returns a typed accessor for the value it names.
func Get(d *Deserializer, pathStr string) (*path.Accessor, error) {
	segs := strings.Split(pathStr, "/")
	m, err := path.Resolve(d, segs)
	if err != nil {
		return nil, err
	}
	return path.NewAccessor(m), nil
}

// Stream returns the i'th decoded stream, or nil if out of range.
func Stream(d *Deserializer, i int) *record.Stream {
	if i < 0 || i >= len(d.Streams) {
		return nil
	}
	return d.Streams[i]
}
