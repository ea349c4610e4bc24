package store

import "github.com/kaizenhub/kaizenhub-server/internal/errors"

// Sentinel errors returned by store implementations. They carry the
// application error codes so handlers can map them with errors.Is.
var (
	ErrNotFound      = errors.NotFound("resource not found")
	ErrAlreadyExists = errors.AlreadyExists("resource already exists")
)
