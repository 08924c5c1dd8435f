// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/rand"
	"fmt"

	"github.com/usdAG/gohdb/internal/protocol"
)

// ScramSHA256 implements the SCRAMSHA256 authentication method: a single
// HMAC-SHA256 round derives the client key from the password.
type ScramSHA256 struct {
	Password string

	clientChallenge []byte
}

// NewScramSHA256 returns a SCRAMSHA256 method authenticating with password.
func NewScramSHA256(password string) *ScramSHA256 {
	return &ScramSHA256{Password: password}
}

func (m *ScramSHA256) Name() string { return "SCRAMSHA256" }

func (m *ScramSHA256) ClientChallenge() ([]byte, error) {
	m.clientChallenge = make([]byte, ClientChallengeSize)
	if _, err := rand.Read(m.clientChallenge); err != nil {
		return nil, fmt.Errorf("%s: generating client challenge: %w", m.Name(), err)
	}
	return m.clientChallenge, nil
}

func (m *ScramSHA256) ClientProof(serverFields []protocol.AuthField) ([]byte, error) {
	sc, err := parseServerChallenge(m.Name(), serverFields, false)
	if err != nil {
		return nil, err
	}
	proof := clientProofSCRAMSHA256(sc.salt, sc.key, m.clientChallenge, []byte(m.Password))
	return buildProofField(proof), nil
}
