package lxeos

import "errors"

var (
	// ErrNotAcknowledged is returned when the device didn't answer a
	// binary frame with ACK. NACK, other bytes and timeouts all end here.
	ErrNotAcknowledged = errors.New("not acknowledged")
	// ErrChecksum is returned when a binary response fails its CRC.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrProtocol is returned when a response is out of sequence or
	// truncated.
	ErrProtocol = errors.New("protocol violation")
	// ErrSettingsUnknown is returned when settings can't be sent because
	// the device hasn't reported its current ones.
	ErrSettingsUnknown = errors.New("device settings unknown")
	// ErrInvalidDeclaration is returned for a task the device can't store.
	ErrInvalidDeclaration = errors.New("invalid declaration")
	// ErrBlockOverrun is returned when a block exceeds the remaining size
	// of the flight.
	ErrBlockOverrun = errors.New("block exceeds remaining flight size")
	// ErrTransport is returned when a sentence couldn't be written.
	ErrTransport = errors.New("transport failure")
)
