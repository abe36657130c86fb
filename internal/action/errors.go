package action

import "errors"

// ErrUnhandled marks an action the executor deliberately does not
// perform; the host boundary owns it (clipboard access).
var ErrUnhandled = errors.New("action must be handled by the host")
