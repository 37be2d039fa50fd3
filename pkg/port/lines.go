package port

// MaxLineLength limits a single sentence, longer input is dropped.
const MaxLineLength = 256

type lineState int

const (
	lineIdle lineState = iota // waiting for '$'
	lineBody                  // collecting until CR/LF
)

// LineParser assembles sentences from bytes. Anything outside
// '$'...CR/LF, and sentences with non-printable bytes, are discarded.
type LineParser struct {
	state lineState
	buf   []byte
}

// Reset drops any partial sentence.
func (p *LineParser) Reset() {
	p.state, p.buf = lineIdle, p.buf[:0]
}

// Parse consumes one byte and returns a sentence once complete.
func (p *LineParser) Parse(b byte) (string, bool) {
	switch p.state {
	case lineIdle:
		if b == '$' {
			p.buf = append(p.buf[:0], b)
			p.state = lineBody
		}
	case lineBody:
		switch {
		case b == '\r' || b == '\n':
			p.state = lineIdle
			return string(p.buf), true
		case b == '$':
			p.buf = append(p.buf[:0], b)
		case b < 0x20 || b >= 0x7f || len(p.buf) >= MaxLineLength:
			p.Reset()
		default:
			p.buf = append(p.buf, b)
		}
	}
	return "", false
}
