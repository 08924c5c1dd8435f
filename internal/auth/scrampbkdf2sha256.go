// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/rand"
	"fmt"

	"github.com/usdAG/gohdb/internal/protocol"
)

// ScramPBKDF2SHA256 implements the SCRAMPBKDF2SHA256 authentication method:
// the client key is stretched from the password with PBKDF2-HMAC-SHA256
// using a round count the server chooses, rather than a single HMAC round.
type ScramPBKDF2SHA256 struct {
	Password string

	clientChallenge []byte
}

// NewScramPBKDF2SHA256 returns a SCRAMPBKDF2SHA256 method authenticating
// with password.
func NewScramPBKDF2SHA256(password string) *ScramPBKDF2SHA256 {
	return &ScramPBKDF2SHA256{Password: password}
}

func (m *ScramPBKDF2SHA256) Name() string { return "SCRAMPBKDF2SHA256" }

func (m *ScramPBKDF2SHA256) ClientChallenge() ([]byte, error) {
	m.clientChallenge = make([]byte, ClientChallengeSize)
	if _, err := rand.Read(m.clientChallenge); err != nil {
		return nil, fmt.Errorf("%s: generating client challenge: %w", m.Name(), err)
	}
	return m.clientChallenge, nil
}

func (m *ScramPBKDF2SHA256) ClientProof(serverFields []protocol.AuthField) ([]byte, error) {
	sc, err := parseServerChallenge(m.Name(), serverFields, true)
	if err != nil {
		return nil, err
	}
	proof := clientProofSCRAMPBKDF2SHA256(sc.salt, sc.key, m.clientChallenge, []byte(m.Password), int(sc.rounds))
	return buildProofField(proof), nil
}
