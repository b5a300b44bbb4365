package models

import "errors"

// ErrModelUnavailable reports that a model-backed stage was invoked before
// its model finished loading. Fatal to the current request; field-level
// parse misses never produce it.
var ErrModelUnavailable = errors.New("model is not loaded")
