package kv

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// compressed value layout: 1-byte tag + 4-byte big-endian raw length + block.
// Values that do not shrink are stored raw so small records pay no overhead.
const (
	tagRaw  byte = 0
	tagLZ4  byte = 1
	hdrSize      = 5
)

// CompressedDB wraps a DB and transparently lz4-compresses values.
type CompressedDB struct {
	inner DB
}

// NewCompressedDB wraps inner with lz4 value compression.
func NewCompressedDB(inner DB) *CompressedDB {
	return &CompressedDB{inner: inner}
}

func (c *CompressedDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	v, err := c.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

func (c *CompressedDB) Write(ctx context.Context, key, value []byte) error {
	return c.inner.Write(ctx, key, encode(value))
}

func (c *CompressedDB) Delete(ctx context.Context, key []byte) error {
	return c.inner.Delete(ctx, key)
}

func (c *CompressedDB) Batch(ctx context.Context, ops []BatchOperation) error {
	out := make([]BatchOperation, len(ops))
	for i, op := range ops {
		out[i] = op
		if op.Type == BatchPut {
			out[i].Value = encode(op.Value)
		}
	}
	return c.inner.Batch(ctx, out)
}

func (c *CompressedDB) Iterator(ctx context.Context, start, end []byte) (Iterator, error) {
	it, err := c.inner.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &compressedIterator{inner: it}, nil
}

func encode(value []byte) []byte {
	bound := lz4.CompressBlockBound(len(value))
	buf := make([]byte, hdrSize+bound)
	binary.BigEndian.PutUint32(buf[1:hdrSize], uint32(len(value)))

	n, err := lz4.CompressBlock(value, buf[hdrSize:], nil)
	if err != nil || n == 0 || n >= len(value) {
		// Incompressible: store raw.
		raw := make([]byte, hdrSize+len(value))
		raw[0] = tagRaw
		binary.BigEndian.PutUint32(raw[1:hdrSize], uint32(len(value)))
		copy(raw[hdrSize:], value)
		return raw
	}
	buf[0] = tagLZ4
	return buf[:hdrSize+n]
}

func decode(stored []byte) ([]byte, error) {
	if len(stored) < hdrSize {
		return nil, fmt.Errorf("compressed value too short: %d bytes", len(stored))
	}
	rawLen := binary.BigEndian.Uint32(stored[1:hdrSize])
	switch stored[0] {
	case tagRaw:
		if int(rawLen) != len(stored)-hdrSize {
			return nil, fmt.Errorf("raw value length mismatch")
		}
		out := make([]byte, rawLen)
		copy(out, stored[hdrSize:])
		return out, nil
	case tagLZ4:
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored[hdrSize:], out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		return out[:n], nil
	default:
		return nil, fmt.Errorf("unknown value tag %d", stored[0])
	}
}

type compressedIterator struct {
	inner Iterator
	value []byte
	err   error
}

func (it *compressedIterator) Next() bool {
	if !it.inner.Next() {
		return false
	}
	it.value, it.err = decode(it.inner.Value())
	return it.err == nil
}

func (it *compressedIterator) Key() []byte   { return it.inner.Key() }
func (it *compressedIterator) Value() []byte { return it.value }

func (it *compressedIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.inner.Error()
}

func (it *compressedIterator) Close() error { return it.inner.Close() }
