// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package display

// ObjectID formats a Git object ID for user-facing output.
func ObjectID(id string) string {
	return colorer(id, cyan)
}

// RefName formats a fully qualified reference name for user-facing output.
func RefName(name string) string {
	return colorer(name, yellow)
}

// Success formats a message reporting a completed operation.
func Success(message string) string {
	return colorer(message, green)
}
