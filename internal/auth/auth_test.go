// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"testing"

	"github.com/usdAG/gohdb/internal/protocol"
)

func TestScramSHA256RoundTrip(t *testing.T) {
	m := NewScramSHA256("secret")
	challenge, err := m.ClientChallenge()
	if err != nil {
		t.Fatalf("ClientChallenge: %v", err)
	}
	if len(challenge) != ClientChallengeSize {
		t.Fatalf("challenge length = %d, expected %d", len(challenge), ClientChallengeSize)
	}

	serverFields := []protocol.AuthField{testSalt, testServerChallenge}
	proof, err := m.ClientProof(serverFields)
	if err != nil {
		t.Fatalf("ClientProof: %v", err)
	}
	if len(proof) != 3+ClientProofSize {
		t.Fatalf("proof field length = %d", len(proof))
	}
}

func TestScramSHA256ShortServerResponse(t *testing.T) {
	m := NewScramSHA256("secret")
	if _, err := m.ClientChallenge(); err != nil {
		t.Fatalf("ClientChallenge: %v", err)
	}
	_, err := m.ClientProof([]protocol.AuthField{testSalt})
	if err == nil {
		t.Fatal("expected error for short server response")
	}
	if _, ok := err.(*ErrShortServerResponse); !ok {
		t.Fatalf("error type = %T, expected *ErrShortServerResponse", err)
	}
}

func TestScramPBKDF2SHA256RoundTrip(t *testing.T) {
	m := NewScramPBKDF2SHA256("secret")
	if _, err := m.ClientChallenge(); err != nil {
		t.Fatalf("ClientChallenge: %v", err)
	}
	rounds := []byte{0, 0, 0x3A, 0x98} // big-endian 15000
	serverFields := []protocol.AuthField{testSalt, testServerChallenge, rounds}
	proof, err := m.ClientProof(serverFields)
	if err != nil {
		t.Fatalf("ClientProof: %v", err)
	}
	if len(proof) != 3+ClientProofSize {
		t.Fatalf("proof field length = %d", len(proof))
	}
}

func TestRegistrySelect(t *testing.T) {
	methods := []Method{NewScramSHA256("pw"), NewJWT("user", 42, "host", "token")}
	m, err := Select(methods, "JWT")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if m.Name() != "JWT" {
		t.Fatalf("Select returned %q", m.Name())
	}
	if _, err := Select(methods, "SAML"); err == nil {
		t.Fatal("expected ErrMethodMismatch")
	}
	names := Names(methods)
	if len(names) != 2 || names[0] != "SCRAMSHA256" || names[1] != "JWT" {
		t.Fatalf("Names = %v", names)
	}
}

func TestJWTClientChallengeCarriesIdentity(t *testing.T) {
	m := NewJWT("alice", 4242, "db01.example.com", "token123")
	challenge, err := m.ClientChallenge()
	if err != nil {
		t.Fatalf("ClientChallenge: %v", err)
	}
	part, err := protocol.DecodeAuthenticationPart(challenge)
	if err != nil {
		t.Fatalf("decode identity part: %v", err)
	}
	if len(part.Fields) != 3 {
		t.Fatalf("identity fields = %d, expected 3", len(part.Fields))
	}
	if string(part.Fields[0]) != "alice" {
		t.Fatalf("username field = %q", part.Fields[0])
	}
	if string(part.Fields[2]) != "db01.example.com" {
		t.Fatalf("hostname field = %q", part.Fields[2])
	}
	proof, err := m.ClientProof(nil)
	if err != nil {
		t.Fatalf("ClientProof: %v", err)
	}
	if string(proof) != "token123" {
		t.Fatalf("proof = %q, expected token123", proof)
	}
}

func TestSessionCookieProofAppendsClientID(t *testing.T) {
	m := NewSessionCookie("alice", []byte("cookie-bytes"), "4242@db01.example.com")
	if challenge, err := m.ClientChallenge(); err != nil || challenge != nil {
		t.Fatalf("ClientChallenge = %v, %v; expected nil, nil", challenge, err)
	}
	proof, err := m.ClientProof(nil)
	if err != nil {
		t.Fatalf("ClientProof: %v", err)
	}
	want := "cookie-bytes4242@db01.example.com"
	if string(proof) != want {
		t.Fatalf("proof = %q, expected %q", proof, want)
	}
}
