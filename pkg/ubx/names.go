package ubx

import "fmt"

// Message classes.
const (
	ClassNAV byte = 0x01
	ClassRXM byte = 0x02
	ClassINF byte = 0x04
	ClassACK byte = 0x05
	ClassCFG byte = 0x06
	ClassUPD byte = 0x09
	ClassMON byte = 0x0a
	ClassTIM byte = 0x0d
	ClassMGA byte = 0x13
	ClassLOG byte = 0x21
	ClassSEC byte = 0x27
)

// ACK messages.
const (
	AckNak byte = 0x00
	AckAck byte = 0x01
)

// CFG messages.
const (
	CfgRst    byte = 0x04
	CfgCfg    byte = 0x09
	CfgPwr    byte = 0x57
	CfgValset byte = 0x8a
	CfgValget byte = 0x8b
	CfgValdel byte = 0x8c
)

// INF messages.
const (
	InfError   byte = 0x00
	InfWarning byte = 0x01
	InfNotice  byte = 0x02
	InfTest    byte = 0x03
	InfDebug   byte = 0x04
)

// LOG messages.
const (
	LogErase    byte = 0x03
	LogStr      byte = 0x04
	LogCreate   byte = 0x07
	LogInfo     byte = 0x08
	LogRetr     byte = 0x09
	LogRetrPos  byte = 0x0b
	LogRetrStr  byte = 0x0d
	LogFindTime byte = 0x0e
	LogRetrPosX byte = 0x0f
)

// MGA messages.
const (
	MgaGPS  byte = 0x00
	MgaGAL  byte = 0x02
	MgaBDS  byte = 0x03
	MgaQZSS byte = 0x05
	MgaGLO  byte = 0x06
	MgaINI  byte = 0x40
	MgaACK  byte = 0x60
	MgaDBD  byte = 0x80
)

// MON messages.
const (
	MonIO    byte = 0x02
	MonVer   byte = 0x04
	MonMsgPP byte = 0x06
	MonRxBuf byte = 0x07
	MonTxBuf byte = 0x08
	MonHW    byte = 0x09
	MonHW2   byte = 0x0b
	MonRxr   byte = 0x21
	MonPath  byte = 0x27
	MonGNSS  byte = 0x28
	MonComms byte = 0x36
	MonHW3   byte = 0x37
	MonRF    byte = 0x38
)

// NAV messages.
const (
	NavPosECEF   byte = 0x01
	NavPosLLH    byte = 0x02
	NavStatus    byte = 0x03
	NavDOP       byte = 0x04
	NavPVT       byte = 0x07
	NavOdo       byte = 0x09
	NavResetOdo  byte = 0x10
	NavVelECEF   byte = 0x11
	NavVelNED    byte = 0x12
	NavHPPosECEF byte = 0x13
	NavHPPosLLH  byte = 0x14
	NavTimeGPS   byte = 0x20
	NavTimeUTC   byte = 0x21
	NavClock     byte = 0x22
	NavTimeGLO   byte = 0x23
	NavTimeBDS   byte = 0x24
	NavTimeGAL   byte = 0x25
	NavTimeLS    byte = 0x26
	NavOrb       byte = 0x34
	NavSat       byte = 0x35
	NavGeofence  byte = 0x39
	NavSvin      byte = 0x3b
	NavRelPosNED byte = 0x3c
	NavSig       byte = 0x43
	NavEOE       byte = 0x61
)

// RXM messages.
const (
	RxmSfrbx byte = 0x13
	RxmMeasx byte = 0x14
	RxmRawx  byte = 0x15
	RxmRtcm  byte = 0x32
	RxmPmreq byte = 0x41
	RxmRlm   byte = 0x59
)

// SEC messages.
const (
	SecUniqID byte = 0x03
)

// TIM messages.
const (
	TimTP   byte = 0x01
	TimTM2  byte = 0x03
	TimVrfy byte = 0x06
)

// UPD messages.
const (
	UpdSos byte = 0x14
)

var classNames = map[byte]string{
	ClassACK: "UBX-ACK",
	ClassCFG: "UBX-CFG",
	ClassINF: "UBX-INF",
	ClassLOG: "UBX-LOG",
	ClassMGA: "UBX-MGA",
	ClassMON: "UBX-MON",
	ClassNAV: "UBX-NAV",
	ClassRXM: "UBX-RXM",
	ClassSEC: "UBX-SEC",
	ClassTIM: "UBX-TIM",
	ClassUPD: "UBX-UPD",
}

type msgKey struct {
	cls, id byte
}

var messageNames = map[msgKey]string{
	{ClassACK, AckAck}: "UBX-ACK-ACK",
	{ClassACK, AckNak}: "UBX-ACK-NAK",

	{ClassCFG, CfgPwr}:    "UBX-CFG-PWR",
	{ClassCFG, CfgRst}:    "UBX-CFG-RST",
	{ClassCFG, CfgCfg}:    "UBX-CFG-CFG",
	{ClassCFG, CfgValset}: "UBX-CFG-VALSET",
	{ClassCFG, CfgValget}: "UBX-CFG-VALGET",
	{ClassCFG, CfgValdel}: "UBX-CFG-VALDEL",

	{ClassINF, InfError}:   "UBX-INF-ERROR",
	{ClassINF, InfWarning}: "UBX-INF-WARNING",
	{ClassINF, InfNotice}:  "UBX-INF-NOTICE",
	{ClassINF, InfTest}:    "UBX-INF-TEST",
	{ClassINF, InfDebug}:   "UBX-INF-DEBUG",

	{ClassLOG, LogCreate}:   "UBX-LOG-CREATE",
	{ClassLOG, LogErase}:    "UBX-LOG-ERASE",
	{ClassLOG, LogFindTime}: "UBX-LOG-FINDTIME",
	{ClassLOG, LogInfo}:     "UBX-LOG-INFO",
	{ClassLOG, LogRetrPosX}: "UBX-LOG-RETRPOSX",
	{ClassLOG, LogRetrPos}:  "UBX-LOG-RETRPOS",
	{ClassLOG, LogRetrStr}:  "UBX-LOG-RETRSTR",
	{ClassLOG, LogRetr}:     "UBX-LOG-RETR",
	{ClassLOG, LogStr}:      "UBX-LOG-STR",

	{ClassMGA, MgaACK}:  "UBX-MGA-ACK",
	{ClassMGA, MgaDBD}:  "UBX-MGA-DBD",
	{ClassMGA, MgaINI}:  "UBX-MGA-INI",
	{ClassMGA, MgaGPS}:  "UBX-MGA-GPS",
	{ClassMGA, MgaGAL}:  "UBX-MGA-GAL",
	{ClassMGA, MgaBDS}:  "UBX-MGA-BDS",
	{ClassMGA, MgaQZSS}: "UBX-MGA-QZSS",
	{ClassMGA, MgaGLO}:  "UBX-MGA-GLO",

	{ClassMON, MonGNSS}:  "UBX-MON-GNSS",
	{ClassMON, MonHW}:    "UBX-MON-HW",
	{ClassMON, MonHW2}:   "UBX-MON-HW2",
	{ClassMON, MonHW3}:   "UBX-MON-HW3",
	{ClassMON, MonRF}:    "UBX-MON-RF",
	{ClassMON, MonIO}:    "UBX-MON-IO",
	{ClassMON, MonComms}: "UBX-MON-COMMS",
	{ClassMON, MonMsgPP}: "UBX-MON-MSGPP",
	{ClassMON, MonPath}:  "UBX-MON-PATH",
	{ClassMON, MonRxr}:   "UBX-MON-RXR",
	{ClassMON, MonRxBuf}: "UBX-MON-RXBUF",
	{ClassMON, MonTxBuf}: "UBX-MON-TXBUF",
	{ClassMON, MonVer}:   "UBX-MON-VER",

	{ClassNAV, NavPVT}:       "UBX-NAV-PVT",
	{ClassNAV, NavSat}:       "UBX-NAV-SAT",
	{ClassNAV, NavOrb}:       "UBX-NAV-ORB",
	{ClassNAV, NavStatus}:    "UBX-NAV-STATUS",
	{ClassNAV, NavSig}:       "UBX-NAV-SIG",
	{ClassNAV, NavClock}:     "UBX-NAV-CLOCK",
	{ClassNAV, NavDOP}:       "UBX-NAV-DOP",
	{ClassNAV, NavPosECEF}:   "UBX-NAV-POSECEF",
	{ClassNAV, NavHPPosECEF}: "UBX-NAV-HPPOSECEF",
	{ClassNAV, NavPosLLH}:    "UBX-NAV-POSLLH",
	{ClassNAV, NavHPPosLLH}:  "UBX-NAV-HPPOSLLH",
	{ClassNAV, NavRelPosNED}: "UBX-NAV-RELPOSNED",
	{ClassNAV, NavVelECEF}:   "UBX-NAV-VELECEF",
	{ClassNAV, NavVelNED}:    "UBX-NAV-VELNED",
	{ClassNAV, NavSvin}:      "UBX-NAV-SVIN",
	{ClassNAV, NavEOE}:       "UBX-NAV-EOE",
	{ClassNAV, NavGeofence}:  "UBX-NAV-GEOFENCE",
	{ClassNAV, NavOdo}:       "UBX-NAV-ODO",
	{ClassNAV, NavResetOdo}:  "UBX-NAV-RESETODO",
	{ClassNAV, NavTimeUTC}:   "UBX-NAV-TIMEUTC",
	{ClassNAV, NavTimeLS}:    "UBX-NAV-TIMELS",
	{ClassNAV, NavTimeGPS}:   "UBX-NAV-TIMEGPS",
	{ClassNAV, NavTimeGLO}:   "UBX-NAV-TIMEGLO",
	{ClassNAV, NavTimeBDS}:   "UBX-NAV-TIMEBDS",
	{ClassNAV, NavTimeGAL}:   "UBX-NAV-TIMEGAL",

	{ClassRXM, RxmMeasx}: "UBX-RXM-MEASX",
	{ClassRXM, RxmRawx}:  "UBX-RXM-RAWX",
	{ClassRXM, RxmSfrbx}: "UBX-RXM-SFRBX",
	{ClassRXM, RxmPmreq}: "UBX-RXM-PMREQ",
	{ClassRXM, RxmRlm}:   "UBX-RXM-RLM",
	{ClassRXM, RxmRtcm}:  "UBX-RXM-RTCM",

	{ClassSEC, SecUniqID}: "UBX-SEC-UNIQUEID",

	{ClassTIM, TimTM2}:  "UBX-TIM-TM2",
	{ClassTIM, TimTP}:   "UBX-TIM-TP",
	{ClassTIM, TimVrfy}: "UBX-TIM-VRFY",

	{ClassUPD, UpdSos}: "UBX-UPD-SOS",
}

// Name returns the name for the given class and message id.
func Name(cls, id byte) string {
	// check message table
	if name, ok := messageNames[msgKey{cls, id}]; ok {
		return name
	}

	// use class name if known
	if name, ok := classNames[cls]; ok {
		return fmt.Sprintf("%s-%02X", name, id)
	}

	return fmt.Sprintf("UBX-%02X-%02X", cls, id)
}

// MessageName returns the name of a framed message.
func MessageName(msg []byte) string {
	if len(msg) < HeadSize {
		return "UBX-?"
	}
	return Name(msg[2], msg[3])
}

// Lookup returns class and message id for a message name. The "UBX-" prefix
// is optional.
func Lookup(name string) (byte, byte, bool) {
	if len(name) < 4 || name[:4] != "UBX-" {
		name = "UBX-" + name
	}
	for key, n := range messageNames {
		if n == name {
			return key.cls, key.id, true
		}
	}
	return 0, 0, false
}
