// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the HDB authentication method family: the SCRAM
// variants, SAML, JWT and session cookie reauthentication, and the
// SCRAM client-proof derivation they share.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// ClientProofSize is the fixed length in bytes of a SCRAM client proof.
const ClientProofSize = 32

// ClientChallengeSize is the length in bytes of the random nonce a SCRAM
// method sends as its client challenge.
const ClientChallengeSize = 64

func sha256Sum(p ...[]byte) []byte {
	h := sha256.New()
	for _, b := range p {
		h.Write(b)
	}
	return h.Sum(nil)
}

func hmacSum(key []byte, p ...[]byte) []byte {
	h := hmac.New(sha256.New, key)
	for _, b := range p {
		h.Write(b)
	}
	return h.Sum(nil)
}

func xor(dst, a, b []byte) []byte {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
	return dst
}

// clientProofSCRAMSHA256 derives the SCRAM-SHA256 client proof from the
// password, server salt, server challenge and client challenge:
//
//	key  = SHA256(HMAC_SHA256(password, salt))
//	sig  = HMAC_SHA256(SHA256(key), salt || serverChallenge || clientChallenge)
//	proof = sig XOR key
func clientProofSCRAMSHA256(salt, serverChallenge, clientChallenge, password []byte) []byte {
	key := sha256Sum(hmacSum(password, salt))
	sig := hmacSum(sha256Sum(key), salt, serverChallenge, clientChallenge)
	return xor(make([]byte, ClientProofSize), sig, key)
}

// clientProofSCRAMPBKDF2SHA256 derives the SCRAM-PBKDF2-SHA256 client proof.
// It differs from clientProofSCRAMSHA256 only in how the key is stretched
// from the password: PBKDF2-HMAC-SHA256 with the given salt and round count
// in place of a single HMAC round.
func clientProofSCRAMPBKDF2SHA256(salt, serverChallenge, clientChallenge, password []byte, rounds int) []byte {
	key := sha256Sum(pbkdf2.Key(password, salt, rounds, ClientProofSize, sha256.New))
	sig := hmacSum(sha256Sum(key), salt, serverChallenge, clientChallenge)
	return xor(make([]byte, ClientProofSize), sig, key)
}
