package plugin

import "errors"

// ErrClosed indicates use of a host after Close.
var ErrClosed = errors.New("plugin host is closed")
