// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"encoding/binary"
	"fmt"

	"github.com/usdAG/gohdb/internal/protocol"
	"github.com/usdAG/gohdb/internal/trace"
)

// Method is an HDB authentication method. A Connection offers one or more
// Methods by name in its initial authentication request; the server picks
// one and the chosen Method drives the remainder of the handshake.
type Method interface {
	// Name is the wire name the server matches against (e.g. "SCRAMSHA256").
	Name() string
	// ClientChallenge returns the field the method contributes to the
	// initial authentication request, alongside its name. For challenge
	// response methods this is a random nonce; JWT and SAML send an
	// encoded AuthenticationPart carrying username, pid and hostname, and
	// SessionCookie sends none. Token based methods send the token itself
	// as the proof.
	ClientChallenge() ([]byte, error)
	// ClientProof computes the proof field sent in the final
	// authentication request, given the fields the server returned in
	// response to the initial request.
	ClientProof(serverFields []protocol.AuthField) ([]byte, error)
}

// ErrShortServerResponse indicates the server returned fewer authentication
// fields than the method requires to compute its proof.
type ErrShortServerResponse struct {
	Method string
	Want   int
	Got    int
}

func (e *ErrShortServerResponse) Error() string {
	return fmt.Sprintf("%s: server response has %d fields, expected at least %d", e.Method, e.Got, e.Want)
}

// ErrMethodMismatch indicates the server chose a method the client did not
// offer, or none of the offered methods at all.
type ErrMethodMismatch struct {
	Chosen  string
	Offered []string
}

func (e *ErrMethodMismatch) Error() string {
	return fmt.Sprintf("server chose authentication method %q, not among offered methods %v", e.Chosen, e.Offered)
}

// buildProofField frames a raw SCRAM proof the way the wire protocol
// expects it inside the final authentication request: a fixed two byte
// prefix, a one byte length and the proof bytes themselves.
func buildProofField(proof []byte) []byte {
	out := make([]byte, 0, 3+len(proof))
	out = append(out, 0x00, 0x01, byte(len(proof)))
	out = append(out, proof...)
	return out
}

// serverChallenge holds the fields a SCRAM server sends in response to the
// client's initial authentication request.
type serverChallenge struct {
	salt   []byte
	key    []byte
	rounds uint32
}

// parseServerChallenge reads salt/key(/rounds) out of fields, the Fields of
// the nested AuthenticationPart the server packs into field 1 of its
// authentication reply (re-parsed by the caller via
// protocol.DecodeAuthenticationPart before this is called).
func parseServerChallenge(method string, fields []protocol.AuthField, needRounds bool) (*serverChallenge, error) {
	want := 2
	if needRounds {
		want = 3
	}
	if len(fields) < want {
		return nil, &ErrShortServerResponse{Method: method, Want: want, Got: len(fields)}
	}
	trace.Printf("auth: %s challenge has %d fields, salt=%dB key=%dB", method, len(fields), len(fields[0]), len(fields[1]))
	sc := &serverChallenge{salt: fields[0], key: fields[1]}
	if needRounds {
		if len(fields[2]) != 4 {
			return nil, fmt.Errorf("%s: rounds field has %d bytes, expected 4", method, len(fields[2]))
		}
		sc.rounds = binary.BigEndian.Uint32(fields[2])
	}
	return sc, nil
}
