// Package filesystem provides the FS abstraction used throughout ndmgr.
//
// This package contains implementations of FS, including the standard OS
// filesystem and an in-memory afero-backed filesystem for tests.
package filesystem
