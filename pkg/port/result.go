package port

import "errors"

var (
	// ErrTimeout indicates the expected bytes didn't arrive in time.
	ErrTimeout = errors.New("read timeout")
	// ErrBusy indicates the receiver is already running.
	ErrBusy = errors.New("receiver already running")
)

// ReadStatus classifies the outcome of a foreground read.
type ReadStatus int

const (
	// ReadOK means all requested bytes were received.
	ReadOK ReadStatus = iota
	// ReadTimeout means the timeout expired first.
	ReadTimeout
	// ReadError means the transport failed or the operation was canceled.
	ReadError
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadTimeout:
		return "timeout"
	case ReadError:
		return "error"
	}
	return "unknown"
}

// ReadResult is the result of a foreground read.
// Data holds the bytes received, complete only when Status is ReadOK.
type ReadResult struct {
	Status ReadStatus
	Data   []byte
	Err    error
}

// OK tells if the read completed.
func (r ReadResult) OK() bool {
	return r.Status == ReadOK
}

// Error converts the result into an error, nil if OK.
func (r ReadResult) Error() error {
	switch r.Status {
	case ReadOK:
		return nil
	case ReadTimeout:
		return ErrTimeout
	}
	return r.Err
}
