package domain

import "errors"

// ErrMacroNotFound is returned when a macro name cannot be found in the store.
var ErrMacroNotFound = errors.New("macro not found")

// ErrUnknownAction is returned when a step record names an unsupported action.
var ErrUnknownAction = errors.New("unknown action")

// ErrImageNotFound is returned when no on-screen match reaches the requested confidence.
var ErrImageNotFound = errors.New("image not found on screen")

// ErrAssetMissing is returned when an image asset cannot be read.
var ErrAssetMissing = errors.New("image asset missing")
