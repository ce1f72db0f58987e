package health

import "errors"

// ErrCheckTimeout is reported for a check that exceeded the timeout.
var ErrCheckTimeout = errors.New("health: check timeout")
