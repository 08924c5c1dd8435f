// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import "github.com/usdAG/gohdb/internal/protocol"

// JWT implements the JWT authentication method: the client presents a
// signed bearer token in place of a password, identifying itself with the
// username, process id and hostname the server records against the
// session.
type JWT struct {
	Username string
	PID      int
	Hostname string
	Token    string
}

// NewJWT returns a JWT method. Field order is username, pid, hostname,
// token, matching the order the client identification fields are packed
// into the initial authentication request.
func NewJWT(username string, pid int, hostname, token string) *JWT {
	return &JWT{Username: username, PID: pid, Hostname: hostname, Token: token}
}

func (m *JWT) Name() string { return "JWT" }

func (m *JWT) ClientChallenge() ([]byte, error) {
	ident := &protocol.AuthenticationPart{Fields: []protocol.AuthField{
		protocol.AuthField(m.Username),
		pidField(m.PID),
		protocol.AuthField(m.Hostname),
	}}
	return ident.Bytes(), nil
}

// ClientProof for a token based method is the token itself; there is no
// server challenge to fold in.
func (m *JWT) ClientProof(serverFields []protocol.AuthField) ([]byte, error) {
	return []byte(m.Token), nil
}

func pidField(pid int) protocol.AuthField {
	return protocol.AuthField([]byte{byte(pid), byte(pid >> 8), byte(pid >> 16), byte(pid >> 24)})
}
