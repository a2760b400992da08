// Package cli is responsible for the command tree, flag parsing, and
// process-level concerns like exit codes. It layers CLI flags over an
// optional config file and hands the result to the application layer.
package cli
