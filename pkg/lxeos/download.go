package lxeos

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/robotalks/vario.go/pkg/operation"
)

// Date is a calendar date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DateFromJulian converts a Julian day number.
func DateFromJulian(julian uint32) Date {
	a := int(julian) + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	return Date{
		Year:  100*b + d - 4800 + m/10,
		Month: m + 3 - 12*(m/10),
		Day:   e - (153*m+2)/5 + 1,
	}
}

// TimeOfDay is a UTC time within a day.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// TimeOfDayFromSeconds converts seconds since midnight.
func TimeOfDayFromSeconds(sec uint32) TimeOfDay {
	sec %= 24 * 3600
	return TimeOfDay{
		Hour:   int(sec / 3600),
		Minute: int(sec / 60 % 60),
		Second: int(sec % 60),
	}
}

// RecordedFlight describes a flight stored in the device logger.
type RecordedFlight struct {
	// FlightID addresses the flight for download, 1 is the newest.
	FlightID  uint16    `json:"flight_id"`
	FileSize  uint32    `json:"file_size"`
	Date      Date      `json:"date"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
}

// ReadFlightList enumerates the flights in the logger. When an entry
// can't be read, the flights enumerated before it are returned along
// with the error.
func (d *Device) ReadFlightList(env operation.Env) (flights []RecordedFlight, err error) {
	err = d.session(func() error {
		env.SetProgressRange(1)
		env.SetProgressPosition(0)
		count, err := d.flightCount(env)
		if err != nil {
			return fmt.Errorf("flight count: %w", err)
		}
		env.SetProgressRange(uint(count) + 1)
		env.SetProgressPosition(1)
		defer env.SetProgressPosition(uint(count) + 1)
		for i := 1; i <= int(count); i++ {
			flight, err := d.flightInfoWithRetry(env, uint8(i))
			if err != nil {
				return fmt.Errorf("flight %d of %d: %w", i, count, err)
			}
			flights = append(flights, flight)
			env.SetProgressPosition(uint(i) + 1)
		}
		return nil
	})
	return
}

func (d *Device) flightCount(env operation.Env) (uint8, error) {
	if err := d.exchange(env, flightCountRequest()); err != nil {
		return 0, err
	}
	resp, err := d.readResponse(env, flightCountResponseSize)
	if err != nil {
		return 0, err
	}
	if err := verifyResponse(resp); err != nil {
		return 0, err
	}
	return resp[1], nil
}

func (d *Device) flightInfoWithRetry(env operation.Env, index uint8) (flight RecordedFlight, err error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if flight, err = d.flightInfo(env, index); err == nil {
			return
		}
		if ctxErr := env.Context().Err(); ctxErr != nil {
			return flight, ctxErr
		}
		glog.V(1).Infof("lxeos: flight info %d attempt %d: %v", index, attempt, err)
	}
	return
}

func (d *Device) flightInfo(env operation.Env, index uint8) (RecordedFlight, error) {
	if err := d.exchange(env, flightInfoRequest(index)); err != nil {
		return RecordedFlight{}, err
	}
	resp, err := d.readResponse(env, flightInfoResponseSize)
	if err != nil {
		return RecordedFlight{}, err
	}
	return decodeFlightInfo(index, resp)
}

// DownloadFlight downloads flight into the file at path. The file is only
// replaced when the whole flight is received.
func (d *Device) DownloadFlight(env operation.Env, flight RecordedFlight, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmp)
		}
	}()

	w := bufio.NewWriter(f)
	if err := d.DownloadFlightTo(env, flight, w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	committed = true
	glog.Infof("lxeos: flight %d saved to %s (%d bytes)", flight.FlightID, path, flight.FileSize)
	return nil
}

// DownloadFlightTo writes the blocks of flight to w in order. On error,
// whatever was written to w is incomplete.
func (d *Device) DownloadFlightTo(env operation.Env, flight RecordedFlight, w io.Writer) error {
	return d.session(func() error {
		env.SetProgressRange(100)
		env.SetProgressPosition(0)
		defer env.SetProgressPosition(100)
		defer d.Port.Flush()

		sink := &blockSink{w: w, remaining: flight.FileSize}
		for blockID := uint16(0); sink.remaining > 0; blockID++ {
			block, err := d.blockWithRetry(env, flight.FlightID, blockID)
			if err != nil {
				return fmt.Errorf("block %d: %w", blockID, err)
			}
			if err := sink.write(block); err != nil {
				return fmt.Errorf("block %d: %w", blockID, err)
			}
			env.SetProgressPosition(sink.progress(flight.FileSize))
		}
		return nil
	})
}

func (d *Device) blockWithRetry(env operation.Env, flightID, blockID uint16) (block []byte, err error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if block, err = d.block(env, flightID, blockID); err == nil {
			return
		}
		if ctxErr := env.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		glog.V(1).Infof("lxeos: flight %d block %d attempt %d: %v", flightID, blockID, attempt, err)
	}
	return
}

func (d *Device) block(env operation.Env, flightID, blockID uint16) ([]byte, error) {
	if err := d.exchange(env, flightBlockRequest(flightID, blockID)); err != nil {
		return nil, err
	}
	hdr, err := d.readResponse(env, blockHeaderSize)
	if err != nil {
		return nil, err
	}
	h := decodeBlockHeader(hdr)
	if h.ID != blockID {
		return nil, fmt.Errorf("%w: got block %d", ErrProtocol, h.ID)
	}
	// payload followed by the CRC
	data := make([]byte, int(h.Size)+1)
	if err := d.read(env, data); err != nil {
		return nil, err
	}
	crc := CRC8(hdr, CRCSeed)
	if CRC8(data, crc) != 0 {
		return nil, ErrChecksum
	}
	return data[:h.Size], nil
}

// blockSink tracks the bytes outstanding for a flight.
type blockSink struct {
	w         io.Writer
	remaining uint32
}

func (s *blockSink) write(block []byte) error {
	if len(block) == 0 {
		return fmt.Errorf("%w: empty block with %d remaining", ErrProtocol, s.remaining)
	}
	if uint32(len(block)) > s.remaining {
		return fmt.Errorf("%w: %d bytes with %d remaining", ErrBlockOverrun, len(block), s.remaining)
	}
	if _, err := s.w.Write(block); err != nil {
		return err
	}
	s.remaining -= uint32(len(block))
	return nil
}

func (s *blockSink) progress(total uint32) uint {
	if total == 0 {
		return 100
	}
	return uint(100 * (1 - float64(s.remaining)/float64(total)))
}
