package storage

import "errors"

// Storage errors shared by every PlayerStore implementation.
var (
	// ErrNotFound is returned when no player with the given name exists in the pool.
	ErrNotFound = errors.New("not found")

	// ErrAlreadySold is returned when recording a sale for a player that is already sold.
	ErrAlreadySold = errors.New("player already sold")

	// ErrDuplicateKey is returned when seeding a player whose id or (pool, name) exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
