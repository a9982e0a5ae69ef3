package parser

import "fmt"

const rtcm3Preamble = 0xd3

var crc24qTable = func() [256]uint32 {
	var table [256]uint32
	for i := range table {
		crc := uint32(i) << 16
		for j := 0; j < 8; j++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= 0x1864cfb
			}
		}
		table[i] = crc & 0xffffff
	}
	return table
}()

// CRC24Q computes the Qualcomm CRC-24 used by RTCM3.
func CRC24Q(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = ((crc << 8) & 0xffffff) ^ crc24qTable[byte(crc>>16)^b]
	}
	return crc
}

func detectRTCM3(buf []byte) int {
	if buf[0] != rtcm3Preamble {
		return -1
	}
	if len(buf) < 3 {
		return 0
	}
	if buf[1]&0xfc != 0 {
		return -1
	}
	size := int(buf[1]&0x03)<<8 | int(buf[2])
	total := size + 6
	if len(buf) < total {
		return 0
	}
	crc := uint32(buf[total-3])<<16 | uint32(buf[total-2])<<8 | uint32(buf[total-1])
	if CRC24Q(buf[:total-3]) != crc {
		return -1
	}
	return total
}

func rtcm3NameInfo(data []byte) (string, string) {
	size := len(data) - 6
	if size < 2 {
		return "RTCM3-?", ""
	}
	typ := int(data[3])<<4 | int(data[4])>>4
	return fmt.Sprintf("RTCM3-%04d", typ), fmt.Sprintf("type %d, %d bytes", typ, size)
}
