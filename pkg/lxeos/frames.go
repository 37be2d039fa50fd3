package lxeos

import (
	"encoding/binary"
	"fmt"
)

// Framing bytes.
const (
	Sync byte = 0x02
	ACK  byte = 0x06
	NACK byte = 0x15
)

// Binary commands.
const (
	CmdFlightCount      byte = 0xF0
	CmdFlightInfo       byte = 0xF1
	CmdFlightBlock      byte = 0xF2
	CmdDeclaration      byte = 0xCA
	CmdObsZone          byte = 0xF4
	CmdCompetitionClass byte = 0xD0
)

// Response sizes, including the leading ACK and the trailing CRC.
const (
	flightCountResponseSize = 3
	flightInfoResponseSize  = 94
	blockHeaderSize         = 5
)

func newFrame(cmd byte, size int) []byte {
	frame := make([]byte, 2, size+3)
	frame[0], frame[1] = Sync, cmd
	return frame
}

func flightCountRequest() []byte {
	return AppendCRC(newFrame(CmdFlightCount, 0))
}

func flightInfoRequest(index uint8) []byte {
	return AppendCRC(append(newFrame(CmdFlightInfo, 1), index))
}

func flightBlockRequest(flightID, blockID uint16) []byte {
	frame := newFrame(CmdFlightBlock, 4)
	frame = appendUint16LE(frame, flightID)
	frame = appendUint16LE(frame, blockID)
	return AppendCRC(frame)
}

// verifyResponse checks the CRC chain over the response with the ACK
// consumed by the handshake at resp[0].
func verifyResponse(resp []byte) error {
	if CRC8(resp, CRCSeed) != 0 {
		return ErrChecksum
	}
	return nil
}

func decodeFlightInfo(index uint8, resp []byte) (RecordedFlight, error) {
	if len(resp) != flightInfoResponseSize {
		return RecordedFlight{}, fmt.Errorf("%w: flight info of %d bytes", ErrProtocol, len(resp))
	}
	if err := verifyResponse(resp); err != nil {
		return RecordedFlight{}, err
	}
	le := binary.LittleEndian
	return RecordedFlight{
		// downloads address flights by index, 1 is the newest
		FlightID:  uint16(index),
		Date:      DateFromJulian(le.Uint32(resp[13:])),
		StartTime: TimeOfDayFromSeconds(le.Uint32(resp[17:])),
		EndTime:   TimeOfDayFromSeconds(le.Uint32(resp[21:])),
		FileSize:  le.Uint32(resp[89:]),
	}, nil
}

type blockHeader struct {
	Size uint16
	ID   uint16
}

func decodeBlockHeader(hdr []byte) blockHeader {
	return blockHeader{
		Size: binary.LittleEndian.Uint16(hdr[1:]),
		ID:   binary.LittleEndian.Uint16(hdr[3:]),
	}
}

func appendUint16LE(b []byte, v uint16) []byte {
	return append(b, byte(v), byte(v>>8))
}

func appendUint32LE(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendInt32BE(b []byte, v int32) []byte {
	u := uint32(v)
	return append(b, byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}
