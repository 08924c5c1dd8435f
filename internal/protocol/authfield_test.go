// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"testing"

	"github.com/usdAG/gohdb/internal/protocol/encoding"
)

func TestAuthFieldPrefixWidth(t *testing.T) {
	cases := []struct {
		n        int
		wantLen  int
		wantByte byte
	}{
		{0, 1, 0x00},
		{245, 1, 0xF5},
		{246, 3, authFieldMarker2Byte},
		{65535, 3, authFieldMarker2Byte},
		{65536, 5, authFieldMarker4Byte},
	}
	for _, c := range cases {
		f := AuthField(bytes.Repeat([]byte{0x01}, c.n))
		if got := f.EncodedLen(); got != c.wantLen+c.n {
			t.Fatalf("n=%d: EncodedLen = %d, expected %d", c.n, got, c.wantLen+c.n)
		}

		buf := new(bytes.Buffer)
		enc := encoding.NewEncoder(buf)
		encodeAuthField(enc, f)
		raw := buf.Bytes()
		if raw[0] != c.wantByte {
			t.Fatalf("n=%d: first byte = %#x, expected %#x", c.n, raw[0], c.wantByte)
		}

		dec := encoding.NewDecoder(bytes.NewReader(raw))
		got := decodeAuthField(dec)
		if !bytes.Equal(got, f) {
			t.Fatalf("n=%d: round trip mismatch, got %d bytes, expected %d", c.n, len(got), len(f))
		}
	}
}

func TestAuthenticationPartRoundTrip(t *testing.T) {
	p := &AuthenticationPart{
		Fields: []AuthField{
			AuthField("SCRAMSHA256"),
			AuthField([]byte{0x01, 0x02, 0x03}),
			AuthField(bytes.Repeat([]byte{0x7A}, 300)),
		},
	}
	raw := p.Bytes()

	got, err := DecodeAuthenticationPart(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Fields) != len(p.Fields) {
		t.Fatalf("field count = %d, expected %d", len(got.Fields), len(p.Fields))
	}
	for i := range p.Fields {
		if !bytes.Equal(got.Fields[i], p.Fields[i]) {
			t.Fatalf("field %d mismatch: got %d bytes, expected %d", i, len(got.Fields[i]), len(p.Fields[i]))
		}
	}
}

func TestAuthenticationPartNested(t *testing.T) {
	inner := &AuthenticationPart{Fields: []AuthField{AuthField("proof")}}
	outer := &AuthenticationPart{Fields: []AuthField{AuthField("SCRAMSHA256"), AuthField(inner.Bytes())}}

	raw := outer.Bytes()
	got, err := DecodeAuthenticationPart(raw)
	if err != nil {
		t.Fatalf("decode outer: %v", err)
	}
	nested, err := DecodeAuthenticationPart(got.Fields[1])
	if err != nil {
		t.Fatalf("decode nested: %v", err)
	}
	if !bytes.Equal(nested.Fields[0], AuthField("proof")) {
		t.Fatalf("nested field = %q, expected %q", nested.Fields[0], "proof")
	}
}
