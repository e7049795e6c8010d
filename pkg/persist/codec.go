// Package persist provides codec-based file persistence for workspace
// state.
package persist

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// ErrUnknownFormat reports an unrecognized codec format name.
var ErrUnknownFormat = fmt.Errorf("unknown snapshot format")

// Codec is the serialization strategy for snapshot files.
type Codec interface {
	Encode(w io.Writer, state any) error
	Decode(r io.Reader, state any) error
	// Extension returns the file extension for this codec, e.g. ".json".
	Extension() string
}

// ForFormat returns the codec for a format name: "json", "gob",
// "json.lz4", or "gob.lz4".
func ForFormat(format string) (Codec, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "gob":
		return NewGobCodec(), nil
	case "json.lz4":
		return NewCompressingCodec(NewJSONCodec()), nil
	case "gob.lz4":
		return NewCompressingCodec(NewGobCodec()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSONCodec encodes state as JSON. An empty Indent writes compact
// output.
type JSONCodec struct {
	Indent string
}

// NewJSONCodec creates a JSON codec that pretty-prints with two spaces.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: "  "}
}

// Encode implements Codec.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	enc := json.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}

	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	if err := json.NewDecoder(r).Decode(state); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *JSONCodec) Extension() string {
	return ".json"
}

// GobCodec encodes state with encoding/gob.
type GobCodec struct{}

// NewGobCodec creates a codec backed by encoding/gob.
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// Encode implements Codec.
func (c *GobCodec) Encode(w io.Writer, state any) error {
	if err := gob.NewEncoder(w).Encode(state); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *GobCodec) Decode(r io.Reader, state any) error {
	if err := gob.NewDecoder(r).Decode(state); err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *GobCodec) Extension() string {
	return ".gob"
}

// CompressingCodec wraps another codec in an LZ4 stream.
type CompressingCodec struct {
	Inner Codec
}

// NewCompressingCodec creates an LZ4-compressing wrapper around inner.
func NewCompressingCodec(inner Codec) *CompressingCodec {
	return &CompressingCodec{Inner: inner}
}

// Encode implements Codec. The inner codec's output is streamed through
// an LZ4 writer, so nothing is buffered in memory.
func (c *CompressingCodec) Encode(w io.Writer, state any) error {
	zw := lz4.NewWriter(w)

	if err := c.Inner.Encode(zw, state); err != nil {
		return fmt.Errorf("lz4 encode: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *CompressingCodec) Decode(r io.Reader, state any) error {
	if err := c.Inner.Decode(lz4.NewReader(r), state); err != nil {
		return fmt.Errorf("lz4 decode: %w", err)
	}

	return nil
}

// Extension implements Codec. Extensions stack, e.g. ".json.lz4".
func (c *CompressingCodec) Extension() string {
	return c.Inner.Extension() + ".lz4"
}
