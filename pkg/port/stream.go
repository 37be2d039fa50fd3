package port

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/vario.go/pkg/framework"
)

// LineHandler is called for every sentence received in the background.
type LineHandler interface {
	HandleLine(ctx context.Context, line string)
}

// HandleLineFunc is func type of LineHandler.
type HandleLineFunc func(context.Context, string)

// HandleLine implements LineHandler.
func (f HandleLineFunc) HandleLine(ctx context.Context, line string) {
	f(ctx, line)
}

// DefaultIdleTimeout is the default silence after which OnIdle fires.
const DefaultIdleTimeout = 5 * time.Second

// Stream implements a pausable port over a byte stream.
type Stream struct {
	Conn    io.ReadWriteCloser
	Handler LineHandler
	// OnIdle is called once when no sentence arrived for IdleTimeout
	// while the receiver is running.
	OnIdle      func(context.Context)
	IdleTimeout time.Duration

	readerOnce sync.Once
	dataCh     chan []byte
	readErr    error
	errLock    sync.Mutex

	ctlLock  sync.Mutex
	running  bool
	done     chan struct{}
	pauseCh  chan chan struct{}
	resumeCh chan struct{}

	writeLock sync.Mutex
	pending   []byte
	parser    LineParser
}

// NewStream creates a Stream over conn.
func NewStream(conn io.ReadWriteCloser) *Stream {
	return &Stream{
		Conn:        conn,
		IdleTimeout: DefaultIdleTimeout,
		dataCh:      make(chan []byte, 16),
		pauseCh:     make(chan chan struct{}),
		resumeCh:    make(chan struct{}),
	}
}

// Run is the passive receiver. It returns when ctx is done or the
// underlying connection fails.
func (s *Stream) Run(ctx context.Context) error {
	s.startReader()

	s.ctlLock.Lock()
	if s.running {
		s.ctlLock.Unlock()
		return ErrBusy
	}
	s.running, s.done = true, make(chan struct{})
	done := s.done
	s.ctlLock.Unlock()
	defer func() {
		s.ctlLock.Lock()
		s.running = false
		close(done)
		s.ctlLock.Unlock()
	}()

	s.parser.Reset()
	idle := s.idleTimer()
	paused := false
	for {
		if paused {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ack := <-s.pauseCh:
				close(ack)
			case <-s.resumeCh:
				paused = false
				s.parser.Reset()
				idle = s.idleTimer()
				glog.V(3).Info("receiver resumed")
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ack := <-s.pauseCh:
			paused = true
			close(ack)
			glog.V(3).Info("receiver paused")
		case <-s.resumeCh:
		case chunk, ok := <-s.dataCh:
			if !ok {
				return s.err()
			}
			for _, b := range chunk {
				if line, ok := s.parser.Parse(b); ok {
					idle = s.idleTimer()
					if h := s.Handler; h != nil {
						h.HandleLine(ctx, line)
					}
				}
			}
		case <-idle:
			idle = nil
			glog.V(2).Infof("no sentence received for %s", s.IdleTimeout)
			if fn := s.OnIdle; fn != nil {
				fn(ctx)
			}
		}
	}
}

// StopRx parks the background receiver, after it returns all incoming
// bytes go to the foreground reads. It's a no-op when Run isn't active.
func (s *Stream) StopRx() {
	s.ctlLock.Lock()
	running, done := s.running, s.done
	s.ctlLock.Unlock()
	if !running {
		return
	}
	ack := make(chan struct{})
	select {
	case s.pauseCh <- ack:
		<-ack
	case <-done:
	}
}

// StartRx resumes the background receiver. Bytes left over from
// foreground reads are dropped.
func (s *Stream) StartRx() {
	s.pending = nil
	s.ctlLock.Lock()
	running, done := s.running, s.done
	s.ctlLock.Unlock()
	if !running {
		return
	}
	select {
	case s.resumeCh <- struct{}{}:
	case <-done:
	}
}

// Write writes p within timeout.
func (s *Stream) Write(ctx context.Context, p []byte, timeout time.Duration) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	return fx.RunWithTimeout(ctx, timeout, func() error {
		_, err := s.Conn.Write(p)
		return err
	})
}

// ReadFull reads exactly len(p) bytes within timeout.
func (s *Stream) ReadFull(ctx context.Context, p []byte, timeout time.Duration) ReadResult {
	s.startReader()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			select {
			case chunk, ok := <-s.dataCh:
				if !ok {
					return ReadResult{Status: ReadError, Data: p[:n], Err: s.err()}
				}
				s.pending = chunk
			case <-timer.C:
				return ReadResult{Status: ReadTimeout, Data: p[:n]}
			case <-ctx.Done():
				return ReadResult{Status: ReadError, Data: p[:n], Err: ctx.Err()}
			}
		}
		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	return ReadResult{Status: ReadOK, Data: p}
}

// FullFlush discards input until the line is quiet for the quiet period,
// giving up after total.
func (s *Stream) FullFlush(ctx context.Context, quiet, total time.Duration) error {
	s.startReader()
	s.pending = nil
	deadline := time.NewTimer(total)
	defer deadline.Stop()
	for {
		select {
		case _, ok := <-s.dataCh:
			if !ok {
				return s.err()
			}
		case <-time.After(quiet):
			return nil
		case <-deadline.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Flush discards input already received without waiting.
func (s *Stream) Flush() {
	s.pending = nil
	for {
		select {
		case _, ok := <-s.dataCh:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Close closes the connection, which stops Run.
func (s *Stream) Close() error {
	return s.Conn.Close()
}

func (s *Stream) idleTimer() <-chan time.Time {
	if s.IdleTimeout <= 0 {
		return nil
	}
	return time.After(s.IdleTimeout)
}

func (s *Stream) startReader() {
	s.readerOnce.Do(func() {
		go s.readLoop()
	})
}

func (s *Stream) readLoop() {
	defer close(s.dataCh)
	buf := make([]byte, 256)
	for {
		n, err := s.Conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.dataCh <- chunk
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			s.errLock.Lock()
			s.readErr = err
			s.errLock.Unlock()
			return
		}
	}
}

func (s *Stream) err() error {
	s.errLock.Lock()
	defer s.errLock.Unlock()
	if s.readErr == nil {
		return io.EOF
	}
	return s.readErr
}
