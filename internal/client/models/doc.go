// Package models defines the workspace records mirrored from the remote
// service: file entries (files and folders), notes, tasks, and storage
// statistics, plus the Artifact produced by a download.
//
// Records use the service's wire field names as JSON tags. Timestamps are
// nanosecond epochs as issued by the service; task due dates are millisecond
// epochs as supplied by the client.
package models
