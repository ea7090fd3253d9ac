// Package engine runs rename batches.
//
// A batch moves through a fixed sequence of states:
//
//	Idle -> Resolving -> Expanding -> Renaming -> Done -> Idle
//
// Resolving turns drop handles into paths (concurrently), Expanding turns
// those roots into leaf files, and Renaming gives each leaf a fresh UUID
// name in its own directory, one file at a time. Only one batch runs per
// Engine; a second Start while one is active returns ErrBusy.
//
// Per-file failures never stop a batch. They are collected in the
// BatchResult together with the successes, and every attempt is reported to
// the Observer as a Progress event in processing order.
package engine
