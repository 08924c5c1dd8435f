// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package encoding implements the little-endian scalar codec the HDB
// wire protocol builds every packet, segment and part on top of.
package encoding

import (
	"encoding/binary"
	"io"

	"github.com/usdAG/gohdb/internal/cesu8"
)

const scratchSize = 4096

// Encoder encodes HDB protocol scalar types onto an io.Writer.
type Encoder struct {
	wr  io.Writer
	err error
	b   [8]byte
}

// NewEncoder returns a new Encoder writing to wr.
func NewEncoder(wr io.Writer) *Encoder { return &Encoder{wr: wr} }

// Error returns the first write error encountered, if any.
func (e *Encoder) Error() error { return e.err }

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.wr.Write(p)
}

// Zeroes writes cnt zero bytes.
func (e *Encoder) Zeroes(cnt int) {
	if e.err != nil || cnt <= 0 {
		return
	}
	var z [scratchSize]byte
	for cnt > 0 {
		n := cnt
		if n > len(z) {
			n = len(z)
		}
		e.write(z[:n])
		cnt -= n
	}
}

// Bytes writes p verbatim.
func (e *Encoder) Bytes(p []byte) { e.write(p) }

// Byte writes a single byte.
func (e *Encoder) Byte(b byte) { e.b[0] = b; e.write(e.b[:1]) }

// Bool writes a boolean as a single byte.
func (e *Encoder) Bool(v bool) {
	if v {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes a signed 8-bit integer.
func (e *Encoder) Int8(i int8) { e.Byte(byte(i)) }

// Int16 writes a little-endian signed 16-bit integer.
func (e *Encoder) Int16(i int16) { e.Uint16(uint16(i)) }

// Uint16 writes a little-endian unsigned 16-bit integer.
func (e *Encoder) Uint16(i uint16) {
	binary.LittleEndian.PutUint16(e.b[:2], i)
	e.write(e.b[:2])
}

// Uint16ByteOrder writes an unsigned 16-bit integer in the given byte order.
func (e *Encoder) Uint16ByteOrder(i uint16, order binary.ByteOrder) {
	order.PutUint16(e.b[:2], i)
	e.write(e.b[:2])
}

// Int32 writes a little-endian signed 32-bit integer.
func (e *Encoder) Int32(i int32) { e.Uint32(uint32(i)) }

// Uint32 writes a little-endian unsigned 32-bit integer.
func (e *Encoder) Uint32(i uint32) {
	binary.LittleEndian.PutUint32(e.b[:4], i)
	e.write(e.b[:4])
}

// Uint32ByteOrder writes an unsigned 32-bit integer in the given byte order.
func (e *Encoder) Uint32ByteOrder(i uint32, order binary.ByteOrder) {
	order.PutUint32(e.b[:4], i)
	e.write(e.b[:4])
}

// Int64 writes a little-endian signed 64-bit integer.
func (e *Encoder) Int64(i int64) { e.Uint64(uint64(i)) }

// Uint64 writes a little-endian unsigned 64-bit integer.
func (e *Encoder) Uint64(i uint64) {
	binary.LittleEndian.PutUint64(e.b[:8], i)
	e.write(e.b[:8])
}

// String writes s verbatim (no encoding conversion).
func (e *Encoder) String(s string) { e.write([]byte(s)) }

// CESU8String writes s transcoded from UTF-8 to CESU-8.
func (e *Encoder) CESU8String(s string) { e.write(cesu8.EncodeString(nil, s)) }

const scratchReadSize = 4096

// Decoder decodes HDB protocol scalar types from an io.Reader.
type Decoder struct {
	rd  io.Reader
	err error
	b   [scratchReadSize]byte
	cnt int
}

// NewDecoder returns a new Decoder reading from rd.
func NewDecoder(rd io.Reader) *Decoder { return &Decoder{rd: rd} }

// Error returns the first read error encountered, if any.
func (d *Decoder) Error() error { return d.err }

// ResetError clears and returns the current read error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

// ResetCnt resets the byte-read counter.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the number of bytes read since the last ResetCnt.
func (d *Decoder) Cnt() int { return d.cnt }

func (d *Decoder) readFull(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	n, err := io.ReadFull(d.rd, p)
	d.cnt += n
	if err != nil {
		d.err = err
	}
	return n, err
}

// Skip discards cnt bytes from the input.
func (d *Decoder) Skip(cnt int) {
	for n := 0; n < cnt; {
		to := cnt - n
		if to > len(d.b) {
			to = len(d.b)
		}
		m, err := d.readFull(d.b[:to])
		n += m
		if err != nil {
			return
		}
	}
}

// Byte reads and returns a byte.
func (d *Decoder) Byte() byte {
	if _, err := d.readFull(d.b[:1]); err != nil {
		return 0
	}
	return d.b[0]
}

// Bytes reads len(p) bytes into p.
func (d *Decoder) Bytes(p []byte) { d.readFull(p) }

// Bool reads and returns a boolean.
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Int8 reads and returns a signed 8-bit integer.
func (d *Decoder) Int8() int8 { return int8(d.Byte()) }

// Int16 reads and returns a little-endian signed 16-bit integer.
func (d *Decoder) Int16() int16 { return int16(d.Uint16()) }

// Uint16 reads and returns a little-endian unsigned 16-bit integer.
func (d *Decoder) Uint16() uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d.b[:2])
}

// Uint16ByteOrder reads an unsigned 16-bit integer in the given byte order.
func (d *Decoder) Uint16ByteOrder(order binary.ByteOrder) uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return order.Uint16(d.b[:2])
}

// Int32 reads and returns a little-endian signed 32-bit integer.
func (d *Decoder) Int32() int32 { return int32(d.Uint32()) }

// Uint32 reads and returns a little-endian unsigned 32-bit integer.
func (d *Decoder) Uint32() uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.b[:4])
}

// Uint32ByteOrder reads an unsigned 32-bit integer in the given byte order.
func (d *Decoder) Uint32ByteOrder(order binary.ByteOrder) uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return order.Uint32(d.b[:4])
}

// Int64 reads and returns a little-endian signed 64-bit integer.
func (d *Decoder) Int64() int64 { return int64(d.Uint64()) }

// Uint64 reads and returns a little-endian unsigned 64-bit integer.
func (d *Decoder) Uint64() uint64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(d.b[:8])
}

// CESU8Bytes reads size CESU-8 encoded bytes and returns them transcoded to UTF-8.
func (d *Decoder) CESU8Bytes(size int) []byte {
	var p []byte
	if size > len(d.b) {
		p = make([]byte, size)
	} else {
		p = d.b[:size]
	}
	if _, err := d.readFull(p); err != nil {
		return nil
	}
	return []byte(cesu8.DecodeString(p))
}
