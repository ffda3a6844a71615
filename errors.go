// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package at24cxx

import "errors"

// Errors returned by the driver. Failures reported by the bus itself
// are wrapped and can be unwrapped with errors.Unwrap.
var (
	// ErrNotInitialized is returned by any operation on a zero Dev.
	// Use New.
	ErrNotInitialized = errors.New("at24cxx: device not initialized")

	// ErrOutOfRange is returned when address plus length runs past the
	// end of the array. The bus is not touched.
	ErrOutOfRange = errors.New("at24cxx: address out of range")

	// ErrTimeout is returned when a bus transaction does not complete
	// within Opts.TxTimeout.
	ErrTimeout = errors.New("at24cxx: transaction timeout")
)
