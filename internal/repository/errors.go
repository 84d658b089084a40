// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel errors shared across repositories so that
// handlers can map failures to HTTP statuses without inspecting driver
// error strings.
package repository

import "errors"

// ErrNotFound is returned when no row matches a lookup. Owner-scoped
// queries return it both when the row does not exist and when it belongs
// to another user, so callers cannot tell the two cases apart.
var ErrNotFound = errors.New("not found")

// ErrNicknameExists is returned when a registration collides with an
// existing nickname.
var ErrNicknameExists = errors.New("nickname already exists")

// ErrEmailExists is returned when a registration collides with an
// existing email.
var ErrEmailExists = errors.New("email already exists")
