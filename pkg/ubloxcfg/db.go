package ubloxcfg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ryanuber/go-glob"
	"github.com/samber/lo"
)

// Ports are the receiver communication interfaces in the order used by the
// per port configuration items.
var Ports = []string{"I2C", "UART1", "UART2", "USB", "SPI"}

// Protocols are the protocols that can be filtered per port.
var Protocols = []string{"UBX", "NMEA", "RTCM3X"}

var protocolItems = map[string]uint16{
	"UBX":    0x001,
	"NMEA":   0x002,
	"RTCM3X": 0x004,
}

var inProtGroups = map[string]uint8{"I2C": 0x71, "UART1": 0x73, "UART2": 0x75, "USB": 0x77, "SPI": 0x79}
var outProtGroups = map[string]uint8{"I2C": 0x72, "UART1": 0x74, "UART2": 0x76, "USB": 0x78, "SPI": 0x7a}

// base item ids of CFG-MSGOUT entries, the ports follow in Ports order
var msgOutBases = []struct {
	name string
	item uint16
}{
	{"UBX_MON_COMMS", 0x34f},
	{"UBX_MON_HW", 0x1b4},
	{"UBX_MON_RF", 0x359},
	{"UBX_NAV_CLOCK", 0x065},
	{"UBX_NAV_DOP", 0x038},
	{"UBX_NAV_EOE", 0x15f},
	{"UBX_NAV_HPPOSLLH", 0x033},
	{"UBX_NAV_POSECEF", 0x024},
	{"UBX_NAV_POSLLH", 0x029},
	{"UBX_NAV_PVT", 0x006},
	{"UBX_NAV_RELPOSNED", 0x08d},
	{"UBX_NAV_SAT", 0x015},
	{"UBX_NAV_SIG", 0x345},
	{"UBX_NAV_STATUS", 0x01a},
	{"UBX_NAV_TIMEUTC", 0x05b},
	{"UBX_NAV_VELNED", 0x042},
	{"UBX_RXM_RAWX", 0x2a4},
	{"UBX_RXM_SFRBX", 0x231},
	{"UBX_TIM_TP", 0x17d},
	{"NMEA_ID_GGA", 0x0ba},
	{"NMEA_ID_GLL", 0x0c9},
	{"NMEA_ID_GSA", 0x0bf},
	{"NMEA_ID_GST", 0x0d3},
	{"NMEA_ID_GSV", 0x0c4},
	{"NMEA_ID_RMC", 0x0ab},
	{"NMEA_ID_VTG", 0x0b1},
	{"NMEA_ID_ZDA", 0x0d8},
	{"RTCM_3X_TYPE1005", 0x2bd},
	{"RTCM_3X_TYPE1077", 0x2cc},
	{"RTCM_3X_TYPE1087", 0x2d1},
	{"RTCM_3X_TYPE1097", 0x318},
	{"RTCM_3X_TYPE1127", 0x2d6},
	{"RTCM_3X_TYPE1230", 0x303},
}

var infMsgConsts = []Const{
	{Name: "ERROR", Value: 0x01, Title: "Error messages"},
	{Name: "WARNING", Value: 0x02, Title: "Warning messages"},
	{Name: "NOTICE", Value: 0x04, Title: "Notice messages"},
	{Name: "TEST", Value: 0x08, Title: "Test messages"},
	{Name: "DEBUG", Value: 0x10, Title: "Debug messages"},
}

func uartItems(port string, group uint8) []*Item {
	return []*Item{
		{Name: "CFG-" + port + "-BAUDRATE", ID: MakeKey(SizeFour, group, 0x001), Type: TypeU4, Title: "The baudrate that should be configured on the " + port},
		{Name: "CFG-" + port + "-STOPBITS", ID: MakeKey(SizeOne, group, 0x002), Type: TypeE1, Title: "Number of stopbits that should be used on " + port, Consts: []Const{
			{Name: "HALF", Value: 0, Title: "0.5 stopbits"},
			{Name: "ONE", Value: 1, Title: "1.0 stopbits"},
			{Name: "ONEHALF", Value: 2, Title: "1.5 stopbits"},
			{Name: "TWO", Value: 3, Title: "2.0 stopbits"},
		}},
		{Name: "CFG-" + port + "-DATABITS", ID: MakeKey(SizeOne, group, 0x003), Type: TypeE1, Title: "Number of databits that should be used on " + port, Consts: []Const{
			{Name: "EIGHT", Value: 0, Title: "8 databits"},
			{Name: "SEVEN", Value: 1, Title: "7 databits"},
		}},
		{Name: "CFG-" + port + "-PARITY", ID: MakeKey(SizeOne, group, 0x004), Type: TypeE1, Title: "Parity mode that should be used on " + port, Consts: []Const{
			{Name: "NONE", Value: 0, Title: "No parity bit"},
			{Name: "ODD", Value: 1, Title: "Add an odd parity bit"},
			{Name: "EVEN", Value: 2, Title: "Add an even parity bit"},
		}},
		{Name: "CFG-" + port + "-ENABLED", ID: MakeKey(SizeBit, group, 0x005), Type: TypeL, Title: "Flag to indicate if the " + port + " should be enabled"},
	}
}

var staticItems = []*Item{
	{Name: "CFG-I2C-ADDRESS", ID: 0x20510001, Type: TypeU1, Title: "I2C slave address of the receiver (7 bits)"},
	{Name: "CFG-I2C-ENABLED", ID: 0x10510003, Type: TypeL, Title: "Flag to indicate if the I2C interface should be enabled"},
	{Name: "CFG-SPI-ENABLED", ID: 0x10640006, Type: TypeL, Title: "Flag to indicate if the SPI interface should be enabled"},
	{Name: "CFG-USB-ENABLED", ID: 0x10650001, Type: TypeL, Title: "Flag to indicate if the USB interface should be enabled"},

	{Name: "CFG-RATE-MEAS", ID: 0x30210001, Type: TypeU2, Scale: "0.001", Unit: "s", Title: "Nominal time between GNSS measurements"},
	{Name: "CFG-RATE-NAV", ID: 0x30210002, Type: TypeU2, Title: "Ratio of number of measurements to number of navigation solutions"},
	{Name: "CFG-RATE-TIMEREF", ID: 0x20210003, Type: TypeE1, Title: "Time system to which measurements are aligned", Consts: []Const{
		{Name: "UTC", Value: 0, Title: "Align measurements to UTC time"},
		{Name: "GPS", Value: 1, Title: "Align measurements to GPS time"},
		{Name: "GLO", Value: 2, Title: "Align measurements to GLONASS time"},
		{Name: "BDS", Value: 3, Title: "Align measurements to BeiDou time"},
		{Name: "GAL", Value: 4, Title: "Align measurements to Galileo time"},
	}},

	{Name: "CFG-NAVSPG-FIXMODE", ID: 0x20110011, Type: TypeE1, Title: "Position fix mode", Consts: []Const{
		{Name: "2DONLY", Value: 1, Title: "2D only"},
		{Name: "3DONLY", Value: 2, Title: "3D only"},
		{Name: "AUTO", Value: 3, Title: "Auto 2D/3D"},
	}},
	{Name: "CFG-NAVSPG-UTCSTANDARD", ID: 0x2011001c, Type: TypeE1, Title: "UTC standard to be used", Consts: []Const{
		{Name: "AUTO", Value: 0, Title: "Automatic"},
		{Name: "USNO", Value: 3, Title: "UTC as operated by the U.S. Naval Observatory"},
		{Name: "EU", Value: 5, Title: "UTC as combined from multiple European laboratories"},
		{Name: "SU", Value: 6, Title: "UTC as operated by the former Soviet Union"},
		{Name: "NTSC", Value: 7, Title: "UTC as operated by the National Time Service Center, China"},
	}},
	{Name: "CFG-NAVSPG-DYNMODEL", ID: 0x20110021, Type: TypeE1, Title: "Dynamic platform model", Consts: []Const{
		{Name: "PORT", Value: 0, Title: "Portable"},
		{Name: "STAT", Value: 2, Title: "Stationary"},
		{Name: "PED", Value: 3, Title: "Pedestrian"},
		{Name: "AUTOMOT", Value: 4, Title: "Automotive"},
		{Name: "SEA", Value: 5, Title: "Sea"},
		{Name: "AIR1", Value: 6, Title: "Airborne with <1g acceleration"},
		{Name: "AIR2", Value: 7, Title: "Airborne with <2g acceleration"},
		{Name: "AIR4", Value: 8, Title: "Airborne with <4g acceleration"},
		{Name: "WRIST", Value: 9, Title: "Wrist-worn watch"},
		{Name: "BIKE", Value: 10, Title: "Motorbike"},
	}},
	{Name: "CFG-NAVSPG-ACKAIDING", ID: 0x10110025, Type: TypeL, Title: "Acknowledge assistance input messages"},
	{Name: "CFG-NAVSPG-INFIL_MINSVS", ID: 0x201100a1, Type: TypeU1, Title: "Minimum number of satellites for navigation"},
	{Name: "CFG-NAVSPG-INFIL_MAXSVS", ID: 0x201100a2, Type: TypeU1, Title: "Maximum number of satellites for navigation"},
	{Name: "CFG-NAVSPG-INFIL_MINCNO", ID: 0x201100a3, Type: TypeU1, Unit: "dBHz", Title: "Minimum satellite signal level for navigation"},
	{Name: "CFG-NAVSPG-INFIL_MINELEV", ID: 0x201100a4, Type: TypeI1, Unit: "deg", Title: "Minimum elevation for a GNSS satellite to be used in navigation"},
	{Name: "CFG-NAVSPG-OUTFIL_PDOP", ID: 0x301100b1, Type: TypeU2, Scale: "0.1", Title: "Output filter position DOP mask (threshold)"},

	{Name: "CFG-NAVHPG-DGNSSMODE", ID: 0x20140011, Type: TypeE1, Title: "Differential corrections mode", Consts: []Const{
		{Name: "RTK_FLOAT", Value: 2, Title: "No attempts made to fix ambiguities"},
		{Name: "RTK_FIXED", Value: 3, Title: "Ambiguities are fixed whenever possible"},
	}},

	{Name: "CFG-SIGNAL-GPS_L1CA_ENA", ID: 0x10310001, Type: TypeL, Title: "GPS L1C/A"},
	{Name: "CFG-SIGNAL-GPS_L2C_ENA", ID: 0x10310003, Type: TypeL, Title: "GPS L2C"},
	{Name: "CFG-SIGNAL-GAL_E1_ENA", ID: 0x10310007, Type: TypeL, Title: "Galileo E1"},
	{Name: "CFG-SIGNAL-GAL_E5B_ENA", ID: 0x1031000a, Type: TypeL, Title: "Galileo E5b"},
	{Name: "CFG-SIGNAL-BDS_B1_ENA", ID: 0x1031000d, Type: TypeL, Title: "BeiDou B1I"},
	{Name: "CFG-SIGNAL-BDS_B2_ENA", ID: 0x1031000e, Type: TypeL, Title: "BeiDou B2I"},
	{Name: "CFG-SIGNAL-GLO_L1_ENA", ID: 0x10310018, Type: TypeL, Title: "GLONASS L1"},
	{Name: "CFG-SIGNAL-GLO_L2_ENA", ID: 0x1031001a, Type: TypeL, Title: "GLONASS L2"},
	{Name: "CFG-SIGNAL-GPS_ENA", ID: 0x1031001f, Type: TypeL, Title: "GPS enable"},
	{Name: "CFG-SIGNAL-SBAS_ENA", ID: 0x10310020, Type: TypeL, Title: "SBAS enable"},
	{Name: "CFG-SIGNAL-GAL_ENA", ID: 0x10310021, Type: TypeL, Title: "Galileo enable"},
	{Name: "CFG-SIGNAL-BDS_ENA", ID: 0x10310022, Type: TypeL, Title: "BeiDou enable"},
	{Name: "CFG-SIGNAL-QZSS_ENA", ID: 0x10310024, Type: TypeL, Title: "QZSS enable"},
	{Name: "CFG-SIGNAL-GLO_ENA", ID: 0x10310025, Type: TypeL, Title: "GLONASS enable"},

	{Name: "CFG-TMODE-MODE", ID: 0x20030001, Type: TypeE1, Title: "Receiver mode", Consts: []Const{
		{Name: "DISABLED", Value: 0, Title: "Disabled"},
		{Name: "SURVEY_IN", Value: 1, Title: "Survey in"},
		{Name: "FIXED", Value: 2, Title: "Fixed mode (true ARP position information required)"},
	}},
	{Name: "CFG-TMODE-POS_TYPE", ID: 0x20030002, Type: TypeE1, Title: "Determines whether the ARP position is given in ECEF or LAT/LON/HEIGHT", Consts: []Const{
		{Name: "ECEF", Value: 0, Title: "Position is ECEF"},
		{Name: "LLH", Value: 1, Title: "Position is Lat/Lon/Height"},
	}},
	{Name: "CFG-TMODE-ECEF_X", ID: 0x40030003, Type: TypeI4, Unit: "cm", Title: "ECEF X coordinate of the ARP position"},
	{Name: "CFG-TMODE-ECEF_Y", ID: 0x40030004, Type: TypeI4, Unit: "cm", Title: "ECEF Y coordinate of the ARP position"},
	{Name: "CFG-TMODE-ECEF_Z", ID: 0x40030005, Type: TypeI4, Unit: "cm", Title: "ECEF Z coordinate of the ARP position"},
	{Name: "CFG-TMODE-LAT", ID: 0x40030009, Type: TypeI4, Scale: "1e-7", Unit: "deg", Title: "Latitude of the ARP position"},
	{Name: "CFG-TMODE-LON", ID: 0x4003000a, Type: TypeI4, Scale: "1e-7", Unit: "deg", Title: "Longitude of the ARP position"},
	{Name: "CFG-TMODE-HEIGHT", ID: 0x4003000b, Type: TypeI4, Unit: "cm", Title: "Height of the ARP position"},
	{Name: "CFG-TMODE-FIXED_POS_ACC", ID: 0x4003000f, Type: TypeU4, Scale: "0.1", Unit: "mm", Title: "Fixed position 3D accuracy"},
	{Name: "CFG-TMODE-SVIN_MIN_DUR", ID: 0x40030010, Type: TypeU4, Unit: "s", Title: "Survey-in minimum duration"},
	{Name: "CFG-TMODE-SVIN_ACC_LIMIT", ID: 0x40030011, Type: TypeU4, Scale: "0.1", Unit: "mm", Title: "Survey-in position accuracy limit"},

	{Name: "CFG-TP-PERIOD_TP1", ID: 0x40050002, Type: TypeU4, Unit: "us", Title: "Time pulse period (TP1)"},
	{Name: "CFG-TP-LEN_TP1", ID: 0x40050004, Type: TypeU4, Unit: "us", Title: "Time pulse length (TP1)"},
	{Name: "CFG-TP-TP1_ENA", ID: 0x10050007, Type: TypeL, Title: "Enable the first timepulse"},
	{Name: "CFG-TP-PULSE_DEF", ID: 0x20050023, Type: TypeE1, Title: "Determines whether the time pulse is interpreted as frequency or period", Consts: []Const{
		{Name: "PERIOD", Value: 0, Title: "Time pulse period"},
		{Name: "FREQ", Value: 1, Title: "Time pulse frequency"},
	}},
	{Name: "CFG-TP-FREQ_TP1", ID: 0x40050024, Type: TypeU4, Unit: "Hz", Title: "Time pulse frequency (TP1)"},

	{Name: "CFG-NMEA-PROTVER", ID: 0x20930001, Type: TypeE1, Title: "NMEA protocol version", Consts: []Const{
		{Name: "V21", Value: 21, Title: "NMEA protocol version 2.1"},
		{Name: "V23", Value: 23, Title: "NMEA protocol version 2.3"},
		{Name: "V40", Value: 40, Title: "NMEA protocol version 4.0"},
		{Name: "V41", Value: 41, Title: "NMEA protocol version 4.10"},
		{Name: "V411", Value: 42, Title: "NMEA protocol version 4.11"},
	}},
	{Name: "CFG-NMEA-HIGHPREC", ID: 0x10930006, Type: TypeL, Title: "Enable high precision mode"},
	{Name: "CFG-NMEA-MAINTALKERID", ID: 0x20930031, Type: TypeE1, Title: "Main talker ID", Consts: []Const{
		{Name: "AUTO", Value: 0, Title: "Main talker ID is not overridden"},
		{Name: "GP", Value: 1, Title: "Set main talker ID to 'GP'"},
		{Name: "GL", Value: 2, Title: "Set main talker ID to 'GL'"},
		{Name: "GN", Value: 3, Title: "Set main talker ID to 'GN'"},
		{Name: "GA", Value: 4, Title: "Set main talker ID to 'GA'"},
		{Name: "GB", Value: 5, Title: "Set main talker ID to 'GB'"},
		{Name: "GQ", Value: 7, Title: "Set main talker ID to 'GQ'"},
	}},

	{Name: "CFG-ODO-USE_ODO", ID: 0x10220001, Type: TypeL, Title: "Use odometer"},
	{Name: "CFG-ITFM-ENABLE", ID: 0x1041000d, Type: TypeL, Title: "Enable interference detection"},
	{Name: "CFG-HW-ANT_CFG_VOLTCTRL", ID: 0x10a3002e, Type: TypeL, Title: "Active antenna voltage control flag"},
}

var (
	allItems []*Item
	byName   map[string]*Item
	byID     map[uint32]*Item
)

func init() {
	// static items
	allItems = append(allItems, staticItems...)

	// port items
	allItems = append(allItems, uartItems("UART1", 0x52)...)
	allItems = append(allItems, uartItems("UART2", 0x53)...)

	// protocol filters
	for _, port := range Ports {
		for _, prot := range Protocols {
			allItems = append(allItems, &Item{
				Name:  fmt.Sprintf("CFG-%sINPROT-%s", port, prot),
				ID:    MakeKey(SizeBit, inProtGroups[port], protocolItems[prot]),
				Type:  TypeL,
				Title: fmt.Sprintf("Flag to indicate if %s should be an input protocol on %s", prot, port),
			}, &Item{
				Name:  fmt.Sprintf("CFG-%sOUTPROT-%s", port, prot),
				ID:    MakeKey(SizeBit, outProtGroups[port], protocolItems[prot]),
				Type:  TypeL,
				Title: fmt.Sprintf("Flag to indicate if %s should be an output protocol on %s", prot, port),
			})
		}
	}

	// INF message filters
	for i, port := range Ports {
		for j, prot := range []string{"UBX", "NMEA"} {
			allItems = append(allItems, &Item{
				Name:   fmt.Sprintf("CFG-INFMSG-%s_%s", prot, port),
				ID:     MakeKey(SizeOne, 0x92, uint16(1+5*j+i)),
				Type:   TypeX1,
				Title:  fmt.Sprintf("Information message enable flags for the %s protocol on the %s interface", prot, port),
				Consts: infMsgConsts,
			})
		}
	}

	// message output rates
	for _, base := range msgOutBases {
		for i, port := range Ports {
			allItems = append(allItems, &Item{
				Name:  fmt.Sprintf("CFG-MSGOUT-%s_%s", base.name, port),
				ID:    MakeKey(SizeOne, 0x91, base.item+uint16(i)),
				Type:  TypeU1,
				Title: fmt.Sprintf("Output rate of the %s message on port %s", msgOutDisplay(base.name), port),
			})
		}
	}

	// sort by id
	sort.Slice(allItems, func(i, j int) bool {
		return allItems[i].ID < allItems[j].ID
	})

	// index items
	byName = lo.SliceToMap(allItems, func(item *Item) (string, *Item) {
		return item.Name, item
	})
	byID = lo.SliceToMap(allItems, func(item *Item) (uint32, *Item) {
		return item.ID, item
	})
}

func msgOutDisplay(name string) string {
	switch {
	case strings.HasPrefix(name, "NMEA_ID_"):
		return "NMEA-STANDARD-" + strings.TrimPrefix(name, "NMEA_ID_")
	case strings.HasPrefix(name, "RTCM_3X_"):
		return "RTCM-3X-" + strings.TrimPrefix(name, "RTCM_3X_")
	default:
		return strings.ReplaceAll(name, "_", "-")
	}
}

// Items returns all known configuration items ordered by key id.
func Items() []*Item {
	return append([]*Item(nil), allItems...)
}

// ItemsMatching returns the items whose name matches the glob pattern. The
// match is case insensitive and an empty pattern matches all items.
func ItemsMatching(pattern string) []*Item {
	if pattern == "" {
		return Items()
	}
	pattern = strings.ToUpper(pattern)
	return lo.Filter(allItems, func(item *Item, _ int) bool {
		return glob.Glob(pattern, item.Name)
	})
}

// ItemByName returns the item with the given name. Names are case
// insensitive.
func ItemByName(name string) (*Item, bool) {
	item, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return item, ok
}

// ItemByID returns the item with the given key id.
func ItemByID(id uint32) (*Item, bool) {
	item, ok := byID[id]
	return item, ok
}

// UnknownItem returns a synthetic item for an unknown key id. The type is
// derived from the size bits of the key.
func UnknownItem(id uint32) (*Item, error) {
	var typ Type
	switch KeySize(id) {
	case SizeBit:
		typ = TypeL
	case SizeOne:
		typ = TypeX1
	case SizeTwo:
		typ = TypeX2
	case SizeFour:
		typ = TypeX4
	case SizeEight:
		typ = TypeX8
	default:
		return nil, fmt.Errorf("%w: key 0x%08x has invalid size", ErrUnknownItem, id)
	}
	return &Item{
		Name: fmt.Sprintf("CFG-?-0x%08x", id),
		ID:   id,
		Type: typ,
	}, nil
}

// Lookup resolves an item by name, "0x" hex key id or unknown item name.
// Unknown key ids resolve to a synthetic item.
func Lookup(key string) (*Item, error) {
	// find by name
	key = strings.TrimSpace(key)
	if item, ok := ItemByName(key); ok {
		return item, nil
	}

	// parse key id
	hex := strings.TrimPrefix(key, "CFG-?-")
	if strings.HasPrefix(hex, "0x") || strings.HasPrefix(hex, "0X") {
		id, err := parseUint(hex, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, key)
		}
		if item, ok := ItemByID(uint32(id)); ok {
			return item, nil
		}
		return UnknownItem(uint32(id))
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownItem, key)
}

func itemFor(id uint32) (*Item, error) {
	if item, ok := ItemByID(id); ok {
		return item, nil
	}
	return UnknownItem(id)
}

// MsgOutItem returns the message output rate item for the message and port.
// Messages are given like "UBX-NAV-PVT", "NAV-PVT", "NMEA-STANDARD-GGA",
// "NMEA-GGA" or "RTCM-3X-TYPE1005".
func MsgOutItem(message, port string) (*Item, error) {
	// normalize message
	msg := strings.ToUpper(strings.TrimSpace(message))
	switch {
	case strings.HasPrefix(msg, "NMEA-STANDARD-"):
		msg = "NMEA_ID_" + strings.TrimPrefix(msg, "NMEA-STANDARD-")
	case strings.HasPrefix(msg, "NMEA-"):
		msg = "NMEA_ID_" + strings.TrimPrefix(msg, "NMEA-")
	case strings.HasPrefix(msg, "RTCM-3X-"), strings.HasPrefix(msg, "UBX-"):
		msg = strings.ReplaceAll(msg, "-", "_")
	default:
		msg = "UBX_" + strings.ReplaceAll(msg, "-", "_")
	}

	// find item
	item, ok := ItemByName(fmt.Sprintf("CFG-MSGOUT-%s_%s", msg, strings.ToUpper(port)))
	if !ok {
		return nil, fmt.Errorf("%w: no output rate for %s on %s", ErrUnknownItem, message, port)
	}

	return item, nil
}
