// Package varint implements the LEB128-style 7-bit-chunk length prefix
// used throughout the NRBF wire format, and the length-prefixed string
// encoding built on top of it.
package varint

import (
	"github.com/halvorsen/nrbf/wire/bytesrc"
	"github.com/halvorsen/nrbf/wire/errs"
)

// maxBytes bounds the variable-length integer at 5 bytes (7 bits per
// byte, top bit a continuation flag), enough to cover a full uint32.
const maxBytes = 5

// Read decodes a variable-length integer: each byte contributes its low
// 7 bits to an unsigned 32-bit accumulator; the top bit of each byte
// signals that another byte follows.
func Read(src bytesrc.Source) (uint32, error) {
	var v uint32
	for i := 0; i < maxBytes; i++ {
		b, err := src.ReadByte()
		if err != nil {
			return 0, err
		}

		v |= uint32(b&0x7F) << (7 * uint(i))
		if b&0x80 == 0 {
			return v, nil
		}
	}

	return 0, errs.ErrVarIntTooLong
}

// Append encodes v as a variable-length integer and appends it to dst.
func Append(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// ReadString reads a variable-length-prefixed UTF-8 string: a varint
// length N followed by N raw bytes. N==0 yields the empty string.
func ReadString(src bytesrc.Source) (string, error) {
	n, err := Read(src)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	buf := make([]byte, n)
	if err := src.ReadFull(buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// stringWithCodeTag is the single leading byte that must precede a
// "string with code" value.
const stringWithCodeTag = 0x12 // 18 decimal

// ReadStringWithCode reads the single byte 0x12 (18) followed by a
// varint-prefixed string. Any other leading byte is a hard parse error.
func ReadStringWithCode(src bytesrc.Source) (string, error) {
	tag, err := src.ReadByte()
	if err != nil {
		return "", err
	}
	if tag != stringWithCodeTag {
		return "", errs.ErrBadStringCode
	}

	return ReadString(src)
}

// AppendString encodes s as a varint length prefix followed by its bytes.
func AppendString(dst []byte, s string) []byte {
	dst = Append(dst, uint32(len(s)))
	return append(dst, s...)
}
