package ubloxcfg

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

func mustItem(t *testing.T, name string) *Item {
	item, ok := ItemByName(name)
	require.True(t, ok, name)
	return item
}

func TestDatabase(t *testing.T) {
	seen := map[uint32]string{}
	for _, item := range Items() {
		// ids are unique
		other, ok := seen[item.ID]
		assert.False(t, ok, "%s and %s share 0x%08x", item.Name, other, item.ID)
		seen[item.ID] = item.Name

		// key size matches type size
		if item.Type == TypeL {
			assert.Equal(t, SizeBit, KeySize(item.ID), item.Name)
		} else {
			assert.Equal(t, item.Type.Size(), KeySize(item.ID).Bytes(), item.Name)
		}
	}

	item := mustItem(t, "cfg-uart1-baudrate")
	assert.Equal(t, uint32(0x40520001), item.ID)
	assert.Equal(t, uint8(0x52), KeyGroup(item.ID))
	assert.Equal(t, uint16(0x001), KeyItem(item.ID))

	item, ok := ItemByID(0x20910007)
	require.True(t, ok)
	assert.Equal(t, "CFG-MSGOUT-UBX_NAV_PVT_UART1", item.Name)

	assert.Equal(t, uint32(0x10740001), mustItem(t, "CFG-UART1OUTPROT-UBX").ID)
	assert.Equal(t, uint32(0x20920002), mustItem(t, "CFG-INFMSG-UBX_UART1").ID)
}

func TestItemsMatching(t *testing.T) {
	items := ItemsMatching("cfg-uart1-*")
	assert.Len(t, items, 5)
	assert.Len(t, ItemsMatching("CFG-MSGOUT-UBX_NAV_PVT_*"), 5)
	assert.Equal(t, len(Items()), len(ItemsMatching("")))
}

func TestLookup(t *testing.T) {
	item, err := Lookup("0x30210001")
	require.NoError(t, err)
	assert.Equal(t, "CFG-RATE-MEAS", item.Name)

	item, err = Lookup("0x40ff0001")
	require.NoError(t, err)
	assert.Equal(t, "CFG-?-0x40ff0001", item.Name)
	assert.Equal(t, TypeX4, item.Type)

	item, err = Lookup("CFG-?-0x10ff0001")
	require.NoError(t, err)
	assert.Equal(t, TypeL, item.Type)

	_, err = Lookup("0x70ff0001")
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = Lookup("CFG-FOO-BAR")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestMsgOutItem(t *testing.T) {
	for _, name := range []string{"UBX-NAV-PVT", "NAV-PVT", "nav-pvt"} {
		item, err := MsgOutItem(name, "usb")
		require.NoError(t, err)
		assert.Equal(t, "CFG-MSGOUT-UBX_NAV_PVT_USB", item.Name)
	}

	item, err := MsgOutItem("NMEA-STANDARD-GGA", "UART1")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x209100bb), item.ID)

	item, err = MsgOutItem("RTCM-3X-TYPE1005", "UART2")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x209102bf), item.ID)

	_, err = MsgOutItem("UBX-NAV-FOO", "UART1")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestValueFromString(t *testing.T) {
	table := []struct {
		item  *Item
		str   string
		value Value
	}{
		{mustItem(t, "CFG-UART1-ENABLED"), "true", 1},
		{mustItem(t, "CFG-UART1-ENABLED"), "0", 0},
		{mustItem(t, "CFG-UART1-BAUDRATE"), "115200", 115200},
		{mustItem(t, "CFG-UART1-BAUDRATE"), "0x1c200", 115200},
		{mustItem(t, "CFG-NAVSPG-INFIL_MINELEV"), "-5", Value(math.MaxUint64 - 4)},
		{mustItem(t, "CFG-NAVSPG-INFIL_MINELEV"), "0xfb", Value(math.MaxUint64 - 4)},
		{mustItem(t, "CFG-NAVSPG-DYNMODEL"), "AUTOMOT", 4},
		{mustItem(t, "CFG-NAVSPG-DYNMODEL"), "automot", 4},
		{mustItem(t, "CFG-NAVSPG-DYNMODEL"), "9", 9},
		{mustItem(t, "CFG-INFMSG-UBX_UART1"), "ERROR|WARNING", 0x03},
		{mustItem(t, "CFG-INFMSG-UBX_UART1"), "NOTICE|0x80", 0x84},
		{&Item{Name: "R8", Type: TypeR8}, "1.5", Value(math.Float64bits(1.5))},
		{&Item{Name: "R4", Type: TypeR4}, "0.25", Value(math.Float32bits(0.25))},
		{&Item{Name: "U8", Type: TypeU8}, "18446744073709551615", Value(math.MaxUint64)},
	}
	for _, entry := range table {
		v, err := ValueFromString(entry.item, entry.str)
		assert.NoError(t, err, entry.str)
		assert.Equal(t, entry.value, v, entry.str)
	}

	bad := []struct {
		item *Item
		str  string
	}{
		{mustItem(t, "CFG-UART1-ENABLED"), "yes"},
		{mustItem(t, "CFG-RATE-MEAS"), "65536"},
		{mustItem(t, "CFG-RATE-MEAS"), "-1"},
		{mustItem(t, "CFG-NAVSPG-INFIL_MINELEV"), "128"},
		{mustItem(t, "CFG-NAVSPG-DYNMODEL"), "ROCKET"},
		{mustItem(t, "CFG-INFMSG-UBX_UART1"), "ERROR|FOO"},
		{mustItem(t, "CFG-INFMSG-UBX_UART1"), "0x100"},
		{&Item{Name: "R8", Type: TypeR8}, "pi"},
		{mustItem(t, "CFG-RATE-MEAS"), ""},
	}
	for _, entry := range bad {
		_, err := ValueFromString(entry.item, entry.str)
		assert.ErrorIs(t, err, ErrBadValue, entry.str)
	}
}

func TestFormatValue(t *testing.T) {
	for _, entry := range []struct {
		name string
		str  string
	}{
		{"CFG-UART1-ENABLED", "true"},
		{"CFG-UART1-BAUDRATE", "115200"},
		{"CFG-NAVSPG-INFIL_MINELEV", "-5"},
		{"CFG-NAVSPG-DYNMODEL", "AUTOMOT"},
		{"CFG-INFMSG-UBX_UART1", "0x03"},
	} {
		item := mustItem(t, entry.name)
		v, err := ValueFromString(item, entry.str)
		require.NoError(t, err)
		assert.Equal(t, entry.str, FormatValue(item, v))
	}

	assert.Equal(t, "1.5", FormatValue(&Item{Type: TypeR8}, Value(math.Float64bits(1.5))))
}

func TestStringifyKeyVal(t *testing.T) {
	assert.Equal(t, "CFG-NAVSPG-DYNMODEL (0x20110021, E1) = 4 (AUTOMOT)", KeyVal{ID: 0x20110021, Value: 4}.String())
	assert.Equal(t, "CFG-NAVSPG-DYNMODEL (0x20110021, E1) = 1 (n/a)", KeyVal{ID: 0x20110021, Value: 1}.String())
	assert.Equal(t, "CFG-INFMSG-UBX_UART1 (0x20920002, X1) = 0x07 (ERROR|WARNING|NOTICE)", KeyVal{ID: 0x20920002, Value: 7}.String())
	assert.Equal(t, "CFG-RATE-MEAS (0x30210001, U2) = 1000 [0.001 s]", KeyVal{ID: 0x30210001, Value: 1000}.String())
	assert.Equal(t, "CFG-TP-FREQ_TP1 (0x40050024, U4) = 10 Hz", KeyVal{ID: 0x40050024, Value: 10}.String())
	assert.Equal(t, "CFG-?-0x20ff0001 (0x20ff0001, X1) = 0x2a", KeyVal{ID: 0x20ff0001, Value: 42}.String())
}

func TestKeyValCodec(t *testing.T) {
	kvs := []KeyVal{
		{ID: 0x30210001, Value: 1000},
		{ID: 0x10520005, Value: 1},
		{ID: 0x201100a4, Value: Value(math.MaxUint64 - 4)},
	}

	data, err := EncodeKeyVals(kvs)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x01, 0x00, 0x21, 0x30, 0xe8, 0x03,
		0x05, 0x00, 0x52, 0x10, 0x01,
		0xa4, 0x00, 0x11, 0x20, 0xfb,
	}, data)

	decoded, err := DecodeKeyVals(data)
	require.NoError(t, err)
	if diff := cmp.Diff(kvs, decoded); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}

	_, err = DecodeKeyVals(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrBadData)

	_, err = DecodeKeyVals(data[:3])
	assert.ErrorIs(t, err, ErrBadData)

	_, err = EncodeKeyVals([]KeyVal{{ID: 0x70000001}})
	assert.ErrorIs(t, err, ErrBadData)
}

func TestParseLayers(t *testing.T) {
	layers, err := ParseLayers("RAM,bbr,FLASH")
	require.NoError(t, err)
	assert.Equal(t, ubx.LayerRAM|ubx.LayerBBR|ubx.LayerFlash, layers)

	_, err = ParseLayers("")
	assert.ErrorIs(t, err, ErrBadLayer)

	_, err = ParseLayers("RAM,ROM")
	assert.ErrorIs(t, err, ErrBadLayer)

	layer, err := ParseLayer("default")
	require.NoError(t, err)
	assert.Equal(t, ubx.ValgetDefault, layer)

	_, err = ParseLayer("RAM,BBR")
	assert.ErrorIs(t, err, ErrBadLayer)
}

func TestMakeValset(t *testing.T) {
	// single message
	msgs, err := MakeValset([]KeyVal{{ID: 0x30210001, Value: 100}}, ubx.LayerRAM)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "no transaction", msgs[0].Info)
	assert.NoError(t, ubx.Check(msgs[0].Msg))
	assert.Equal(t, []byte{0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x21, 0x30, 0x64, 0x00}, ubx.Payload(msgs[0].Msg))

	// many messages
	var kvs []KeyVal
	for i := 0; i < 150; i++ {
		kvs = append(kvs, KeyVal{ID: MakeKey(SizeOne, 0x91, uint16(i)), Value: 1})
	}
	msgs, err = MakeValset(kvs, ubx.LayerRAM|ubx.LayerBBR)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Len(t, msgs[0].Items, 64)
	assert.Len(t, msgs[1].Items, 64)
	assert.Len(t, msgs[2].Items, 22)
	assert.Equal(t, ubx.TransactionBegin, ubx.Payload(msgs[0].Msg)[2])
	assert.Equal(t, ubx.TransactionContinue, ubx.Payload(msgs[1].Msg)[2])
	assert.Equal(t, ubx.TransactionEnd, ubx.Payload(msgs[2].Msg)[2])
	assert.Len(t, msgs[0].Msg, ubx.FrameSize+4+64*5)

	_, err = MakeValset(kvs, 0)
	assert.ErrorIs(t, err, ErrBadLayer)

	_, err = MakeValset(nil, ubx.LayerRAM)
	assert.ErrorIs(t, err, ErrBadData)
}

func TestMakeValdel(t *testing.T) {
	msgs, err := MakeValdel([]uint32{0x30210001, 0x10520005}, ubx.LayerBBR)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, ubx.Is(msgs[0], ubx.ClassCFG, ubx.CfgValdel))

	_, err = MakeValdel([]uint32{0x30210001}, ubx.LayerRAM)
	assert.ErrorIs(t, err, ubx.ErrLayers)
}
