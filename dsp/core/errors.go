package core

import "errors"

// ErrConfiguration reports an invalid construction-time setting. It is only
// returned by constructors and configuration calls, never from a tick.
var ErrConfiguration = errors.New("configuration error")
