// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	digColor      = termenv.ANSIYellow
	resolvedColor = termenv.ANSIGreen
	failedColor   = termenv.ANSIRed
)
