// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package debug holds the build-time debug flag and cheap internal assertions.
package debug

// Assert does nothing unless the debug build tag is set, in which case it
// panics if the condition is false.
func Assert(condition bool, message ...string) {
	if !Debug {
		return
	}
	if !condition {
		if len(message) > 0 {
			panic(message[0])
		}
		panic("assertion failed")
	}
}
