// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package auth

import "github.com/usdAG/gohdb/internal/trace"

// Wire names of the authentication methods this package implements. A
// Connection offers its configured methods in the order they are listed
// in its Config.Methods, not in the order of these constants.
const (
	NameSCRAMSHA256       = "SCRAMSHA256"
	NameSCRAMPBKDF2SHA256 = "SCRAMPBKDF2SHA256"
	NameJWT               = "JWT"
	NameSAML              = "SAML"
	NameSessionCookie     = "SessionCookie"
)

// Names returns the wire name of every method in methods, preserving order.
func Names(methods []Method) []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name()
	}
	return names
}

// Select returns the Method from methods whose Name matches chosen, or
// ErrMethodMismatch if none does.
func Select(methods []Method, chosen string) (Method, error) {
	for _, m := range methods {
		if m.Name() == chosen {
			trace.Printf("auth: server chose %s", chosen)
			return m, nil
		}
	}
	trace.Printf("auth: server chose %s, not among offered methods %v", chosen, Names(methods))
	return nil, &ErrMethodMismatch{Chosen: chosen, Offered: Names(methods)}
}
