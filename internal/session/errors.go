package session

import "errors"

// ErrSessionNotFound is the sentinel for an id with no live session.
// Store.Lookup reports a miss through its boolean result, not this error.
var ErrSessionNotFound = errors.New("session: not found")
