package alloc

import "errors"

// ErrInit indicates the OS refused the mapping that backs the engine's
// sentinel block. The engine remains uninitialized and creation may be
// retried.
var ErrInit = errors.New("alloc: engine initialization failed")
