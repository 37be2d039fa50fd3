package lxeos

// CRCSeed starts the checksum of a new frame.
const CRCSeed byte = 0xFF

const crcPoly byte = 0x69

// CRC8 computes the frame checksum of data, MSB first. Pass the result of
// a previous call as seed to continue over multiple segments.
func CRC8(data []byte, seed byte) byte {
	crc := seed
	for _, d := range data {
		for bit := 0; bit < 8; bit++ {
			top := (crc ^ d) & 0x80
			crc <<= 1
			if top != 0 {
				crc ^= crcPoly
			}
			d <<= 1
		}
	}
	return crc
}

// AppendCRC appends the checksum of frame to it.
func AppendCRC(frame []byte) []byte {
	return append(frame, CRC8(frame, CRCSeed))
}
