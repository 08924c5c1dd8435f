// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import "github.com/usdAG/gohdb/internal/protocol"

// SAML implements the SAML authentication method: the client presents a
// SAML assertion obtained out of band, identifying itself with the same
// username, pid and hostname triple JWT sends.
type SAML struct {
	Username  string
	PID       int
	Hostname  string
	Assertion string
}

// NewSAML returns a SAML method. Field order is username, pid, hostname,
// assertion.
func NewSAML(username string, pid int, hostname, assertion string) *SAML {
	return &SAML{Username: username, PID: pid, Hostname: hostname, Assertion: assertion}
}

func (m *SAML) Name() string { return "SAML" }

func (m *SAML) ClientChallenge() ([]byte, error) {
	ident := &protocol.AuthenticationPart{Fields: []protocol.AuthField{
		protocol.AuthField(m.Username),
		pidField(m.PID),
		protocol.AuthField(m.Hostname),
	}}
	return ident.Bytes(), nil
}

func (m *SAML) ClientProof(serverFields []protocol.AuthField) ([]byte, error) {
	return []byte(m.Assertion), nil
}
