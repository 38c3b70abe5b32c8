// Package stream drives the per-stream record loop and the
// concatenated-stream ("MultiStream") protocol on top of wire/record.
package stream

import (
	"context"
	"errors"
	"io"

	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
	"github.com/halvorsen/nrbf/wire/record"
)

// headerTag is the leading byte that begins every stream (a
// SerializationHeaderRecord, tag 0).
const headerTag = 0x00

// Deserializer owns zero or more streams read from one byte source. A
// new stream begins whenever the byte after the previous stream's
// terminator is 0x00; EOF ends the process cleanly.
type Deserializer struct {
	Streams []*record.Stream
}

// Decode reads streams from src until EOF. ctx is checked once per
// stream boundary so a caller (e.g. a CLI) can bound decode time on
// pathological input; the decoder itself never blocks beyond a Source
// read.
func Decode(ctx context.Context, src bytesrc.Source) (*Deserializer, error) {
	d := &Deserializer{}

	for {
		if err := ctx.Err(); err != nil {
			return d, err
		}

		tag, err := src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return d, nil
			}
			return d, err
		}

		if tag != headerTag {
			return d, errs.ErrNoHeader
		}

		s, err := record.Decode(src)
		d.Streams = append(d.Streams, s)
		if err != nil {
			return d, err
		}
	}
}
