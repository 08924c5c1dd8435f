// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"

	"github.com/usdAG/gohdb/internal/protocol/encoding"
)

// Authentication fields are framed with a variable width length prefix:
// values up to authFieldMaxLen1Byte fit in a single byte; larger values are
// preceded by a one byte marker selecting a 16 or 32 bit little-endian
// length. The markers themselves (0xF6, 0xF7) are reserved and can never
// appear as a direct one-byte length.
const (
	authFieldMaxLen1Byte = 245
	authFieldMarker2Byte = 0xF6
	authFieldMarker4Byte = 0xF7
)

// AuthField is a single length-prefixed byte string inside an
// AuthenticationPart, such as a method name, a challenge, or a proof.
type AuthField []byte

// EncodedLen returns the number of bytes f occupies on the wire, including
// its length prefix.
func (f AuthField) EncodedLen() int {
	return authFieldPrefixLen(len(f)) + len(f)
}

func authFieldPrefixLen(n int) int {
	switch {
	case n <= authFieldMaxLen1Byte:
		return 1
	case n <= 0xFFFF:
		return 3
	default:
		return 5
	}
}

func encodeAuthField(enc *encoding.Encoder, f AuthField) {
	n := len(f)
	switch {
	case n <= authFieldMaxLen1Byte:
		enc.Byte(byte(n))
	case n <= 0xFFFF:
		enc.Byte(authFieldMarker2Byte)
		enc.Uint16(uint16(n))
	default:
		enc.Byte(authFieldMarker4Byte)
		enc.Uint32(uint32(n))
	}
	enc.Bytes(f)
}

func decodeAuthField(dec *encoding.Decoder) AuthField {
	marker := dec.Byte()
	var n int
	switch marker {
	case authFieldMarker2Byte:
		n = int(dec.Uint16())
	case authFieldMarker4Byte:
		n = int(dec.Uint32())
	default:
		n = int(marker)
	}
	f := make(AuthField, n)
	dec.Bytes(f)
	return f
}

// AuthenticationPart is the payload of a PartKindAuthentication part: a
// count-prefixed list of AuthFields. Authentication methods pack their
// method name, challenges and proofs into these fields, and a proof blob
// itself embeds a nested AuthenticationPart using the same framing.
type AuthenticationPart struct {
	Fields []AuthField
}

// Encode writes the part's field count followed by each field.
func (p *AuthenticationPart) Encode(enc *encoding.Encoder) {
	enc.Int16(int16(len(p.Fields)))
	for _, f := range p.Fields {
		encodeAuthField(enc, f)
	}
}

// Decode reads a field count followed by that many fields.
func (p *AuthenticationPart) Decode(dec *encoding.Decoder) {
	cnt := dec.Int16()
	p.Fields = make([]AuthField, cnt)
	for i := range p.Fields {
		p.Fields[i] = decodeAuthField(dec)
	}
}

// Bytes returns the wire encoding of the part.
func (p *AuthenticationPart) Bytes() []byte {
	buf := new(bytes.Buffer)
	enc := encoding.NewEncoder(buf)
	p.Encode(enc)
	return buf.Bytes()
}

// DecodeAuthenticationPart parses an AuthenticationPart out of an arbitrary
// buffer, such as the payload of an AuthField that itself nests a proof
// blob's field list.
func DecodeAuthenticationPart(b []byte) (*AuthenticationPart, error) {
	dec := encoding.NewDecoder(bytes.NewReader(b))
	p := new(AuthenticationPart)
	p.Decode(dec)
	if err := dec.Error(); err != nil {
		return nil, &CodecError{Op: "decode authentication part", Err: err}
	}
	return p, nil
}

// UsernameField returns an AuthField carrying s transcoded from UTF-8 to
// CESU-8, the encoding HDB requires for the username field of an
// authentication request.
func UsernameField(s string) AuthField {
	buf := new(bytes.Buffer)
	encoding.NewEncoder(buf).CESU8String(s)
	return AuthField(buf.Bytes())
}

// DecodeCESU8 transcodes b, a CESU-8 encoded part payload such as a server
// error message, to a UTF-8 Go string.
func DecodeCESU8(b []byte) string {
	return string(encoding.NewDecoder(bytes.NewReader(b)).CESU8Bytes(len(b)))
}
