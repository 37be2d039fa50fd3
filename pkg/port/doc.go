// Package port provides the serial link used by instrument drivers.
package port

// A port carries two kinds of traffic on one byte stream: sentences
// (lines starting with '$') which are received passively in the background
// and dispatched to a LineHandler, and binary exchanges which are driven by
// the foreground caller after the background receiver is paused with
// StopRx. Every foreground I/O call is bounded by a timeout.
