package port

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanConn struct {
	in     chan []byte
	lock   sync.Mutex
	out    bytes.Buffer
	closed bool
}

func newChanConn() *chanConn {
	return &chanConn{in: make(chan []byte, 16)}
}

func (c *chanConn) Read(p []byte) (int, error) {
	data, ok := <-c.in
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (c *chanConn) Write(p []byte) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.out.Write(p)
}

func (c *chanConn) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.closed {
		c.closed = true
		close(c.in)
	}
	return nil
}

func (c *chanConn) written() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.out.String()
}

func runStream(t *testing.T, s *Stream) (context.CancelFunc, chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()
	for i := 0; i < 1000; i++ {
		s.ctlLock.Lock()
		running := s.running
		s.ctlLock.Unlock()
		if running {
			return cancel, errCh
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("receiver not started")
	return cancel, errCh
}

func TestLineParser(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		lines []string
	}{
		{"single", "$LXWP3,12*34\r\n", []string{"$LXWP3,12*34"}},
		{"leading garbage", "xx\x06$A*00\n", []string{"$A*00"}},
		{"restart", "$AB$CD*00\r\n", []string{"$CD*00"}},
		{"non-printable", "$A\x01B*00\r\n$C*00\n", []string{"$C*00"}},
		{"two lines", "$A\r\n$B\r\n", []string{"$A", "$B"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p LineParser
			var lines []string
			for _, b := range []byte(tc.input) {
				if line, ok := p.Parse(b); ok {
					lines = append(lines, line)
				}
			}
			require.Equal(t, tc.lines, lines)
		})
	}
}

func TestStreamDispatchesLines(t *testing.T) {
	conn := newChanConn()
	s := NewStream(conn)
	linesCh := make(chan string, 4)
	s.Handler = HandleLineFunc(func(ctx context.Context, line string) {
		linesCh <- line
	})
	cancel, errCh := runStream(t, s)
	defer cancel()

	conn.in <- []byte("$LXWP0,Y")
	conn.in <- []byte(",1*00\r\n")
	require.Equal(t, "$LXWP0,Y,1*00", <-linesCh)

	conn.Close()
	require.Equal(t, io.EOF, <-errCh)
}

func TestStreamPauseHandsBytesToForeground(t *testing.T) {
	conn := newChanConn()
	s := NewStream(conn)
	linesCh := make(chan string, 4)
	s.Handler = HandleLineFunc(func(ctx context.Context, line string) {
		linesCh <- line
	})
	cancel, errCh := runStream(t, s)

	s.StopRx()
	conn.in <- []byte{0x06, 0x01}
	conn.in <- []byte{0x02}
	buf := make([]byte, 3)
	res := s.ReadFull(context.Background(), buf, time.Second)
	require.True(t, res.OK())
	require.Equal(t, []byte{0x06, 0x01, 0x02}, res.Data)

	res = s.ReadFull(context.Background(), make([]byte, 1), 20*time.Millisecond)
	require.Equal(t, ReadTimeout, res.Status)
	require.Equal(t, ErrTimeout, res.Error())

	s.StartRx()
	conn.in <- []byte("$B*00\r\n")
	require.Equal(t, "$B*00", <-linesCh)
	require.Empty(t, linesCh)

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestStreamRunsOnce(t *testing.T) {
	s := NewStream(newChanConn())
	cancel, errCh := runStream(t, s)
	require.Equal(t, ErrBusy, s.Run(context.Background()))
	cancel()
	<-errCh
}

func TestStreamIdle(t *testing.T) {
	conn := newChanConn()
	s := NewStream(conn)
	s.IdleTimeout = 20 * time.Millisecond
	idleCh := make(chan struct{}, 4)
	s.OnIdle = func(context.Context) { idleCh <- struct{}{} }
	cancel, errCh := runStream(t, s)
	defer func() {
		cancel()
		<-errCh
	}()

	select {
	case <-idleCh:
	case <-time.After(time.Second):
		t.Fatal("idle not reported")
	}
	select {
	case <-idleCh:
		t.Fatal("idle reported twice without traffic")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestStreamFlushAndWrite(t *testing.T) {
	conn := newChanConn()
	s := NewStream(conn)
	conn.in <- []byte("stale")
	require.NoError(t, s.FullFlush(context.Background(), 20*time.Millisecond, 200*time.Millisecond))
	res := s.ReadFull(context.Background(), make([]byte, 1), 20*time.Millisecond)
	require.Equal(t, ReadTimeout, res.Status)

	require.NoError(t, s.Write(context.Background(), []byte("$PFLX0*00\r\n"), time.Second))
	require.Equal(t, "$PFLX0*00\r\n", conn.written())

	conn.Close()
	res = s.ReadFull(context.Background(), make([]byte, 1), time.Second)
	require.Equal(t, ReadError, res.Status)
	require.Equal(t, io.EOF, res.Error())
}
