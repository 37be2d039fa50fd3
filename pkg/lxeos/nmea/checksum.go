// Package nmea provides the text sentence layer shared by the LX protocols:
// XOR checksums, field-by-field reading and sentence formatting.
package nmea

import "strings"

// Checksum XORs all bytes of the sentence body, the part between the
// leading '$' and the '*' (both optional in s).
func Checksum(s string) byte {
	s = strings.TrimPrefix(s, "$")
	if pos := strings.IndexByte(s, '*'); pos >= 0 {
		s = s[:pos]
	}
	var sum byte
	for i := 0; i < len(s); i++ {
		sum ^= s[i]
	}
	return sum
}

// VerifyChecksum checks a received sentence of the form $BODY*HH,
// trailing whitespace is ignored and hex digits may be of either case.
func VerifyChecksum(line string) bool {
	line = strings.TrimRight(line, "\r\n ")
	if !strings.HasPrefix(line, "$") {
		return false
	}
	pos := strings.LastIndexByte(line, '*')
	if pos < 0 || len(line)-pos != 3 {
		return false
	}
	hi, ok1 := hexValue(line[pos+1])
	lo, ok2 := hexValue(line[pos+2])
	if !ok1 || !ok2 {
		return false
	}
	return Checksum(line[1:pos]) == hi<<4|lo
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
