// Package client is the gateway between the workspace client and the remote
// workspace service.
//
// # Overview
//
// The package provides:
//  1. The Client interface: one typed method per service operation (file
//     listing, folders, chunk upload and fetch, notes, tasks, storage
//     statistics) plus Ping and Close.
//  2. GRPCClient, the gRPC implementation. Payloads travel as JSON under the
//     "json" content-subtype; every call is stamped with the canister id, a
//     request id, and the caller's principal, signature, and delegation.
//     Off production, a root key is fetched before the client is returned.
//  3. Conversion of {"Ok": ...} / {"Err": "..."} replies into (value, error).
//
// # Error Handling
//
// Conditions are exposed as sentinel errors for errors.Is:
// ErrConfiguration (missing canister id or endpoint), ErrUnavailable
// (transport failure or timeout), ErrUnauthorized, and ErrNotFound.
// Explicit service failures are returned as *RejectedError carrying the
// service message verbatim; a "... not found" message also matches
// ErrNotFound.
package client
