// Package store defines the persistence interfaces for the Geata core.
// Implementations live in the sqlite and memory subpackages; services hold
// only these interfaces so the full dependency graph can run in-memory in
// tests.
package store

import "errors"

// ErrExists is returned when creating an entity whose identity is already
// taken (device id, user email/phone).
var ErrExists = errors.New("already exists")
