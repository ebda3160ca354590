package lock

import "errors"

// ErrLockTimeout is returned when a key's lock is not obtained in time.
var ErrLockTimeout = errors.New("lock acquisition timeout")
