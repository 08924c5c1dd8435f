// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import "github.com/usdAG/gohdb/internal/protocol"

// SessionCookie implements reauthentication against a previously
// established session using the opaque cookie the server returned from an
// earlier SCRAM handshake, avoiding a second password round trip. The proof
// it sends is the cookie followed by a client id string identifying the
// reconnecting process, so the server can tell apart cookie replay from two
// different clients.
type SessionCookie struct {
	Username string
	Cookie   []byte
	ClientID string
}

// NewSessionCookie returns a SessionCookie method authenticating with a
// cookie obtained from a prior session's final authentication reply and a
// clientID identifying this client instance (e.g. "pid@hostname").
func NewSessionCookie(username string, cookie []byte, clientID string) *SessionCookie {
	return &SessionCookie{Username: username, Cookie: cookie, ClientID: clientID}
}

func (m *SessionCookie) Name() string { return "SessionCookie" }

func (m *SessionCookie) ClientChallenge() ([]byte, error) {
	return nil, nil
}

func (m *SessionCookie) ClientProof(serverFields []protocol.AuthField) ([]byte, error) {
	proof := make([]byte, 0, len(m.Cookie)+len(m.ClientID))
	proof = append(proof, m.Cookie...)
	proof = append(proof, []byte(m.ClientID)...)
	return proof, nil
}
