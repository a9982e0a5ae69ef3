package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

const testNMEA = "$GNRMC,,V,,,,,,,,,,N,V*37\r\n"

func makeRTCM3(payload []byte) []byte {
	frame := []byte{0xd3, byte(len(payload) >> 8), byte(len(payload))}
	frame = append(frame, payload...)
	crc := CRC24Q(frame)
	return append(frame, byte(crc>>16), byte(crc>>8), byte(crc))
}

func collect(p *Parser) []*Message {
	var list []*Message
	for {
		msg, ok := p.Process()
		if !ok {
			return list
		}
		list = append(list, msg)
	}
}

func TestCRC24Q(t *testing.T) {
	assert.Equal(t, uint32(0xcde703), CRC24Q([]byte("123456789")))
}

func TestParserMessages(t *testing.T) {
	pvt := ubx.Make(ubx.ClassNAV, ubx.NavPVT, make([]byte, 92))
	rtcm := makeRTCM3([]byte{0x3e, 0xd0, 0x00, 0x01})

	p := New()
	p.Add(pvt)
	p.Add([]byte(testNMEA))
	p.Add(rtcm)

	list := collect(p)
	require.Len(t, list, 3)

	assert.Equal(t, TypeUBX, list[0].Type)
	assert.Equal(t, "UBX-NAV-PVT", list[0].Name)
	assert.Equal(t, pvt, list[0].Data)
	assert.Equal(t, uint64(1), list[0].Seq)

	assert.Equal(t, TypeNMEA, list[1].Type)
	assert.Equal(t, "NMEA-GN-RMC", list[1].Name)
	assert.Equal(t, "GNRMC,,V,,,,,,,,,,N,V", list[1].Info)

	assert.Equal(t, TypeRTCM3, list[2].Type)
	assert.Equal(t, "RTCM3-1005", list[2].Name)
	assert.Equal(t, uint64(3), list[2].Seq)

	assert.Equal(t, Stats{
		Messages: 3,
		Bytes:    uint64(len(pvt) + len(testNMEA) + len(rtcm)),
		UBX:      1,
		NMEA:     1,
		RTCM3:    1,
	}, p.Stats())
}

func TestParserGarbage(t *testing.T) {
	ack := ubx.Make(ubx.ClassACK, ubx.AckAck, []byte{ubx.ClassCFG, ubx.CfgValset})

	p := New()
	p.Add([]byte("junk"))
	p.Add(ack)

	list := collect(p)
	require.Len(t, list, 2)
	assert.Equal(t, TypeGarbage, list[0].Type)
	assert.Equal(t, []byte("junk"), list[0].Data)
	assert.Equal(t, TypeUBX, list[1].Type)
	assert.Equal(t, "UBX-ACK-ACK", list[1].Name)

	// corrupt checksum
	bad := ubx.Make(ubx.ClassACK, ubx.AckAck, []byte{ubx.ClassCFG, ubx.CfgValset})
	bad[len(bad)-1]++
	p.Add(bad)
	p.Add([]byte(testNMEA))

	list = collect(p)
	require.Len(t, list, 2)
	assert.Equal(t, TypeGarbage, list[0].Type)
	assert.Equal(t, bad, list[0].Data)
	assert.Equal(t, TypeNMEA, list[1].Type)
}

func TestParserPartial(t *testing.T) {
	pvt := ubx.Make(ubx.ClassNAV, ubx.NavPVT, make([]byte, 92))

	p := New()
	p.Add([]byte("xx"))
	p.Add(pvt[:10])

	_, ok := p.Process()
	assert.False(t, ok)

	p.Add(pvt[10:])
	list := collect(p)
	require.Len(t, list, 2)
	assert.Equal(t, TypeGarbage, list[0].Type)
	assert.Equal(t, pvt, list[1].Data)

	// byte by byte
	for _, b := range []byte(testNMEA) {
		p.Add([]byte{b})
	}
	msg, ok := p.Process()
	require.True(t, ok)
	assert.Equal(t, "NMEA-GN-RMC", msg.Name)
}

func TestParserMaxGarbage(t *testing.T) {
	data := make([]byte, MaxGarbage+10)
	for i := range data {
		data[i] = 'x'
	}

	p := New()
	p.Add(data)

	msg, ok := p.Process()
	require.True(t, ok)
	assert.Equal(t, TypeGarbage, msg.Type)
	assert.Len(t, msg.Data, MaxGarbage)

	_, ok = p.Process()
	assert.False(t, ok)

	msg, ok = p.Flush()
	require.True(t, ok)
	assert.Len(t, msg.Data, 10)

	_, ok = p.Flush()
	assert.False(t, ok)
}

func TestNMEANames(t *testing.T) {
	for _, entry := range []struct {
		sentence string
		name     string
	}{
		{"$GPGGA,1*00\r\n", "NMEA-GP-GGA"},
		{"$PUBX,00,1*00\r\n", "NMEA-PUBX-00"},
		{"$PGRMZ,1*00\r\n", "NMEA-P-GRMZ"},
	} {
		name, _ := nmeaNameInfo([]byte(entry.sentence))
		assert.Equal(t, entry.name, name)
	}
}

func TestDetectNMEA(t *testing.T) {
	assert.Equal(t, len(testNMEA), detectNMEA([]byte(testNMEA)))
	assert.Equal(t, 0, detectNMEA([]byte(testNMEA[:10])))
	assert.Equal(t, -1, detectNMEA([]byte("$GNRMC,,V,,,,,,,,,,N,V*38\r\n")))
	assert.Equal(t, -1, detectNMEA([]byte("$GN\x01RMC")))
}
