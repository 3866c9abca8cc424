package mvi

import "errors"

// ErrClosed is returned by event receivers once the container's scope has
// been cancelled.
var ErrClosed = errors.New("mvi: container closed")
