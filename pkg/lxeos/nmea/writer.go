package nmea

import (
	"fmt"
	"io"
)

// Format wraps a sentence body into $BODY*HH\r\n.
func Format(body string) []byte {
	return []byte(fmt.Sprintf("$%s*%02X\r\n", body, Checksum(body)))
}

// Write formats body and writes it to w.
func Write(w io.Writer, body string) error {
	_, err := w.Write(Format(body))
	return err
}
