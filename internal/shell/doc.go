// Package shell holds the two thin front ends over the rename engine: a
// fyne window that accepts dropped files and folders, and a terminal runner
// for paths given on the command line.
package shell
