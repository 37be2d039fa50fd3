package lxeos

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/robotalks/vario.go/pkg/port"
)

var errWrite = errors.New("write failed")

// fakePort answers written frames through respond, the answer becomes
// the input for the following reads.
type fakePort struct {
	lock     sync.Mutex
	respond  func(frame []byte) []byte
	writeErr error
	written  [][]byte
	input    []byte
	stopRx   int
	startRx  int
}

func newFakePort(respond func([]byte) []byte) *fakePort {
	return &fakePort{respond: respond}
}

func (p *fakePort) Write(ctx context.Context, b []byte, timeout time.Duration) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	p.written = append(p.written, append([]byte(nil), b...))
	if p.respond != nil {
		p.input = append(p.input, p.respond(b)...)
	}
	return nil
}

func (p *fakePort) FullFlush(ctx context.Context, quiet, total time.Duration) error {
	p.Flush()
	return nil
}

func (p *fakePort) Flush() {
	p.lock.Lock()
	p.input = nil
	p.lock.Unlock()
}

func (p *fakePort) ReadFull(ctx context.Context, b []byte, timeout time.Duration) port.ReadResult {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.input) < len(b) {
		n := copy(b, p.input)
		p.input = nil
		return port.ReadResult{Status: port.ReadTimeout, Data: b[:n]}
	}
	copy(b, p.input)
	p.input = p.input[len(b):]
	return port.ReadResult{Status: port.ReadOK, Data: b}
}

func (p *fakePort) StopRx() {
	p.lock.Lock()
	p.stopRx++
	p.lock.Unlock()
}

func (p *fakePort) StartRx() {
	p.lock.Lock()
	p.startRx++
	p.lock.Unlock()
}

func (p *fakePort) frames() [][]byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([][]byte(nil), p.written...)
}

// response builds ACK + parts + CRC.
func response(parts ...[]byte) []byte {
	resp := []byte{ACK}
	for _, part := range parts {
		resp = append(resp, part...)
	}
	return AppendCRC(resp)
}

func flightInfoPayload(julian, takeoff, landing, size uint32) []byte {
	payload := make([]byte, flightInfoResponseSize-2)
	le := binary.LittleEndian
	le.PutUint32(payload[12:], julian)
	le.PutUint32(payload[16:], takeoff)
	le.PutUint32(payload[20:], landing)
	le.PutUint32(payload[88:], size)
	return payload
}

func blockResponse(id uint16, data []byte) []byte {
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint16(hdr, uint16(len(data)))
	binary.LittleEndian.PutUint16(hdr[2:], id)
	return response(hdr, data)
}

// logger simulates the flight memory of the device.
type logger struct {
	flights    []RecordedFlight
	blocks     [][]byte
	failInfo   map[uint8]bool
	infoCalls  map[uint8]int
	blockCalls []uint16
	blockID    func(requested uint16) uint16
}

func (l *logger) respond(frame []byte) []byte {
	switch frame[1] {
	case CmdFlightCount:
		return response([]byte{byte(len(l.flights))})
	case CmdFlightInfo:
		index := frame[2]
		if l.infoCalls == nil {
			l.infoCalls = make(map[uint8]int)
		}
		l.infoCalls[index]++
		if l.failInfo[index] || int(index) > len(l.flights) {
			return []byte{NACK}
		}
		f := l.flights[index-1]
		return response(flightInfoPayload(2460000+uint32(index),
			uint32(f.StartTime.Hour*3600+f.StartTime.Minute*60+f.StartTime.Second),
			uint32(f.EndTime.Hour*3600+f.EndTime.Minute*60+f.EndTime.Second),
			f.FileSize))
	case CmdFlightBlock:
		id := binary.LittleEndian.Uint16(frame[4:])
		l.blockCalls = append(l.blockCalls, id)
		if int(id) >= len(l.blocks) {
			return []byte{NACK}
		}
		if l.blockID != nil {
			return blockResponse(l.blockID(id), l.blocks[id])
		}
		return blockResponse(id, l.blocks[id])
	}
	return []byte{ACK}
}
