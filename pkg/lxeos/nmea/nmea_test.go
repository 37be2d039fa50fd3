package nmea

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyChecksum(t *testing.T) {
	body := "LXWP0,Y,119.4,1717.6,0.02,0.02,0.02,0.02,0.02,0.02,,000,107.2"
	good := string(Format(body))
	testCases := []struct {
		name  string
		line  string
		valid bool
	}{
		{"formatted", good, true},
		{"lower case hex", "$" + body + "*" + lowerHex(Checksum(body)), true},
		{"no dollar", good[1:], false},
		{"no star", "$" + body, false},
		{"short checksum", "$" + body + "*5", false},
		{"bad hex", "$" + body + "*ZZ", false},
		{"mismatch", "$" + body + "*00", Checksum(body) == 0},
		{"tampered", "$LXWP0,N" + good[8:], false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.valid, VerifyChecksum(tc.line))
		})
	}
}

func lowerHex(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}

func TestFormat(t *testing.T) {
	require.Equal(t, "$PFLX2,1.5,1.00,0,,,,,*"+upperHex(Checksum("PFLX2,1.5,1.00,0,,,,,"))+"\r\n",
		string(Format("PFLX2,1.5,1.00,0,,,,,")))
	require.True(t, VerifyChecksum(string(Format("PFLX0,LXWP0,1,LXWP1,60,LXWP2,11,LXWP3,17"))))
}

func upperHex(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}

func TestLine(t *testing.T) {
	l := NewLine("$LXWP2,1.5,1.10,12,,,,80*4A\r\n")
	require.Equal(t, "$LXWP2", l.Read())
	mc, ok := l.ReadFloat()
	require.True(t, ok)
	require.Equal(t, 1.5, mc)
	bal, ok := l.ReadFloat()
	require.True(t, ok)
	require.Equal(t, 1.1, bal)
	l.Skip(1)
	_, ok = l.ReadFloat()
	require.False(t, ok, "empty field")
	l.Skip(2)
	require.Equal(t, "80", l.Read())
	require.Equal(t, "", l.Read())
	_, ok = l.ReadFloat()
	require.False(t, ok, "exhausted")
}

func TestLineMalformedNumber(t *testing.T) {
	l := NewLine("$LXWP3,abc,12*00")
	l.Skip(1)
	_, ok := l.ReadFloat()
	require.False(t, ok)
	v, ok := l.ReadFloat()
	require.True(t, ok)
	require.Equal(t, 12.0, v)
}
