package main

// Exit codes. Per-entry resolution failures never change the exit code;
// only whole-file I/O problems are fatal.
const (
	ExitSuccess     = 0 // Ran to completion (even with unresolved entries)
	ExitError       = 1 // Fatal error reading input or writing output
	ExitConfigError = 2 // Configuration error (bad config file, invalid flags)
)
