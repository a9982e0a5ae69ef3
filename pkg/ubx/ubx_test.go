package ubx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	assert.Equal(t, []byte{0xb5, 0x62, 0x0a, 0x04, 0x00, 0x00, 0x0e, 0x34}, Poll(ClassMON, MonVer))

	msg := Make(ClassACK, AckAck, []byte{ClassCFG, CfgValset})
	assert.Equal(t, []byte{0xb5, 0x62, 0x05, 0x01, 0x02, 0x00, 0x06, 0x8a, 0x98, 0xc1}, msg)
	assert.NoError(t, Check(msg))
	assert.Equal(t, []byte{ClassCFG, CfgValset}, Payload(msg))
	assert.True(t, Is(msg, ClassACK, AckAck))
}

func TestCheck(t *testing.T) {
	msg := Make(ClassNAV, NavEOE, []byte{1, 2, 3, 4})

	assert.ErrorIs(t, Check(msg[:5]), ErrShort)

	bad := append([]byte{}, msg...)
	bad[0] = 0x00
	assert.ErrorIs(t, Check(bad), ErrSync)

	bad = append([]byte{}, msg...)
	bad[len(bad)-1]++
	assert.ErrorIs(t, Check(bad), ErrChecksum)

	assert.ErrorIs(t, Check(append(msg, 0)), ErrLength)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "UBX-NAV-PVT", Name(ClassNAV, NavPVT))
	assert.Equal(t, "UBX-NAV-FF", Name(ClassNAV, 0xff))
	assert.Equal(t, "UBX-F0-01", Name(0xf0, 0x01))
	assert.Equal(t, "UBX-MON-VER", MessageName(Poll(ClassMON, MonVer)))

	cls, id, ok := Lookup("NAV-PVT")
	assert.True(t, ok)
	assert.Equal(t, ClassNAV, cls)
	assert.Equal(t, NavPVT, id)

	_, _, ok = Lookup("UBX-FOO-BAR")
	assert.False(t, ok)
}

func TestRst(t *testing.T) {
	assert.Equal(t, []byte{0xb5, 0x62, 0x06, 0x04, 0x04, 0x00, 0x00, 0x00, 0x01, 0x00, 0x0f, 0x66},
		Rst(NavBbrHotstart, ResetSW))
}

func TestValgetPoll(t *testing.T) {
	msg, err := ValgetPoll(ValgetFlash, 64, WildcardAll)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x02, 0x40, 0x00, 0xff, 0xff, 0xff, 0x0f}, Payload(msg))

	_, err = ValgetPoll(ValgetRAM, 0)
	assert.ErrorIs(t, err, ErrTooMany)

	assert.Equal(t, uint32(0x0052ffff), GroupWildcard(0x40520001))
}

func TestParseValget(t *testing.T) {
	msg := Make(ClassCFG, CfgValget, []byte{0x01, 0x00, 0x02, 0x00, 0x01, 0x00, 0x52, 0x40, 0x00, 0xc2, 0x01, 0x00})
	resp, err := ParseValget(msg)
	require.NoError(t, err)
	assert.Equal(t, ValgetRAM, resp.Layer)
	assert.Equal(t, uint16(2), resp.Position)
	assert.Len(t, resp.CfgData, 8)

	_, err = ParseValget(Make(ClassCFG, CfgValget, []byte{0x00, 0x00, 0x00, 0x00}))
	assert.ErrorIs(t, err, ErrVersion)
}

func TestValdel(t *testing.T) {
	_, err := Valdel(LayerRAM, TransactionNone, 0x40520001)
	assert.ErrorIs(t, err, ErrLayers)

	msg, err := Valdel(LayerBBR|LayerFlash, TransactionNone, 0x40520001)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x06, 0x00, 0x00, 0x01, 0x00, 0x52, 0x40}, Payload(msg))
}

func TestCfg(t *testing.T) {
	assert.Len(t, Payload(Cfg(CfgMaskAll, CfgMaskNone, CfgMaskAll, 0)), 12)
	payload := Payload(Cfg(CfgMaskAll, CfgMaskNone, CfgMaskAll, CfgDeviceBBR|CfgDeviceFlash))
	assert.Len(t, payload, 13)
	assert.Equal(t, byte(0x03), payload[12])
}

func TestParseVersion(t *testing.T) {
	payload := make([]byte, 40+2*30)
	copy(payload[0:], "ROM SPG 5.10 (7b202e)")
	copy(payload[30:], "000A0000")
	copy(payload[40:], "FWVER=HPG 1.32")
	copy(payload[70:], "MOD=ZED-F9P")
	msg := Make(ClassMON, MonVer, payload)

	ver, ok := ParseVersion(msg)
	require.True(t, ok)
	assert.Equal(t, "ROM SPG 5.10 (7b202e)", ver.Software)
	assert.Equal(t, "000A0000", ver.Hardware)
	assert.Equal(t, "HPG 1.32 (ZED-F9P)", ver.String())
	assert.Equal(t, "HPG 1.32 (ZED-F9P)", MessageInfo(msg))

	_, ok = ParseVersion(Make(ClassMON, MonVer, payload[:50]))
	assert.False(t, ok)
}

func TestMessageInfo(t *testing.T) {
	assert.Equal(t, "UBX-CFG-VALSET", MessageInfo(Make(ClassACK, AckNak, []byte{ClassCFG, CfgValset})))
	assert.Equal(t, "hello", MessageInfo(Make(ClassINF, InfNotice, []byte("hello\x00"))))
	assert.Equal(t, "layers RAM,FLASH, transaction end, 0 bytes", MessageInfo(Valset(LayerRAM|LayerFlash, TransactionEnd, nil)))
	assert.Equal(t, "", MessageInfo(Poll(ClassNAV, NavSat)))
}
