// Package common holds metadata keys and small byte helpers shared by the
// workspace client packages.
package common

// Outbound call metadata keys.
const (
	CanisterIDHeaderName = "x-canister-id"
	PrincipalHeaderName  = "x-principal"
	RequestIDHeaderName  = "x-request-id"
	SignatureHeaderName  = "x-signature"
	DelegationHeaderName = "x-delegation"
)

// MockPrincipal identifies the development identity used when no real
// identity provider is available.
const MockPrincipal = "mock-principal-id-for-development"
