// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"io"

	"github.com/usdAG/gohdb/internal/protocol/encoding"
)

// initRequest is the fixed 14 byte magic sequence a client sends before any
// packet to select the wire protocol version range it supports.
var initRequest = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x04, 0x20, 0x00, 0x04, 0x01, 0x00, 0x00, 0x01, 0x01, 0x01}

// InitRequest returns a copy of the 14 byte initialization request.
func InitRequest() []byte {
	b := make([]byte, len(initRequest))
	copy(b, initRequest)
	return b
}

// InitReply is the server's 8 byte response to the initialization request,
// echoing the negotiated product and protocol versions.
type InitReply struct {
	ProductVersionMajor  int8
	ProductVersionMinor  int16
	ProtocolVersionMajor int8
	ProtocolVersionMinor int16
}

// DecodeInitReply reads the fixed 8 byte init reply from r.
func DecodeInitReply(r io.Reader) (*InitReply, error) {
	dec := encoding.NewDecoder(r)
	reply := &InitReply{
		ProductVersionMajor:  dec.Int8(),
		ProductVersionMinor:  dec.Int16(),
		ProtocolVersionMajor: dec.Int8(),
		ProtocolVersionMinor: dec.Int16(),
	}
	dec.Skip(2)
	if err := dec.Error(); err != nil {
		return nil, &CodecError{Op: "decode init reply", Err: err}
	}
	return reply, nil
}
