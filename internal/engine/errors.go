package engine

import "errors"

// ErrComposing indicates a mutating action arrived while an IME
// composition is active. The host retries after the composition ends
// or cancels.
var ErrComposing = errors.New("mutation blocked during composition")
