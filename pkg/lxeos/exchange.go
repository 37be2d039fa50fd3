package lxeos

import (
	"github.com/golang/glog"

	"github.com/robotalks/vario.go/pkg/operation"
)

// exchange writes a binary frame and waits for the handshake byte.
// Anything but ACK within the timeout is ErrNotAcknowledged.
func (d *Device) exchange(env operation.Env, frame []byte) error {
	ctx := env.Context()
	t := d.Timeouts
	if err := d.Port.FullFlush(ctx, t.FlushQuiet, t.FlushTotal); err != nil {
		glog.V(2).Infof("lxeos: flush before %#02x: %v", frame[1], err)
		return ErrNotAcknowledged
	}
	if err := d.Port.Write(ctx, frame, t.Write); err != nil {
		glog.V(2).Infof("lxeos: write %#02x: %v", frame[1], err)
		return ErrNotAcknowledged
	}
	var b [1]byte
	res := d.Port.ReadFull(ctx, b[:], t.Ack)
	switch {
	case !res.OK():
		glog.V(2).Infof("lxeos: handshake of %#02x: %s %v", frame[1], res.Status, res.Err)
		return ErrNotAcknowledged
	case b[0] == NACK:
		glog.V(2).Infof("lxeos: %#02x NACK", frame[1])
		return ErrNotAcknowledged
	case b[0] != ACK:
		glog.V(2).Infof("lxeos: %#02x unexpected handshake %#02x", frame[1], b[0])
		return ErrNotAcknowledged
	}
	return nil
}

// readResponse reads the n-1 bytes following the ACK of the previous
// exchange and returns them behind a leading ACK, ready for the CRC chain.
func (d *Device) readResponse(env operation.Env, n int) ([]byte, error) {
	resp := make([]byte, n)
	resp[0] = ACK
	if err := d.read(env, resp[1:]); err != nil {
		return nil, err
	}
	return resp, nil
}

// read fills p, a timeout is reported like a missing ACK.
func (d *Device) read(env operation.Env, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	res := d.Port.ReadFull(env.Context(), p, d.Timeouts.Read)
	if !res.OK() {
		glog.V(2).Infof("lxeos: read %d bytes: %s %v", len(p), res.Status, res.Err)
		return ErrNotAcknowledged
	}
	return nil
}
