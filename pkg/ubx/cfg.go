package ubx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Layer bits used by UBX-CFG-VALSET and UBX-CFG-VALDEL.
const (
	LayerRAM   byte = 0x01
	LayerBBR   byte = 0x02
	LayerFlash byte = 0x04
)

// Layer values used by UBX-CFG-VALGET.
const (
	ValgetRAM     byte = 0
	ValgetBBR     byte = 1
	ValgetFlash   byte = 2
	ValgetDefault byte = 7
)

// Transaction modes used by UBX-CFG-VALSET and UBX-CFG-VALDEL.
const (
	TransactionNone     byte = 0
	TransactionBegin    byte = 1
	TransactionContinue byte = 2
	TransactionEnd      byte = 3
)

// Limits of the configuration messages.
const (
	ValsetMaxKV = 64
	ValgetMaxK  = 64
	ValgetMaxKV = 64
	ValdelMaxK  = 64
)

// Key wildcards for UBX-CFG-VALGET.
const (
	WildcardAll uint32 = 0x0fffffff
)

// GroupWildcard returns the wildcard key polling all items of the group the
// key belongs to.
func GroupWildcard(key uint32) uint32 {
	return (key & 0x0fff0000) | 0x0000ffff
}

// The available configuration message errors.
var (
	ErrTooMany = errors.New("ubx: too many items")
	ErrVersion = errors.New("ubx: unsupported message version")
	ErrLayers  = errors.New("ubx: invalid layers")
)

// Valset builds a UBX-CFG-VALSET (version 1) message from encoded key/value
// data. The caller is responsible for keeping cfgData within ValsetMaxKV items.
func Valset(layers, transaction byte, cfgData []byte) []byte {
	payload := make([]byte, 4+len(cfgData))
	payload[0] = 0x01
	payload[1] = layers
	payload[2] = transaction
	payload[3] = 0x00
	copy(payload[4:], cfgData)
	return Make(ClassCFG, CfgValset, payload)
}

// ValgetPoll builds a UBX-CFG-VALGET (version 0) poll message.
func ValgetPoll(layer byte, position uint16, keys ...uint32) ([]byte, error) {
	// check keys
	if len(keys) == 0 || len(keys) > ValgetMaxK {
		return nil, fmt.Errorf("%w: %d keys", ErrTooMany, len(keys))
	}

	// prepare payload
	payload := make([]byte, 4+4*len(keys))
	payload[0] = 0x00
	payload[1] = layer
	binary.LittleEndian.PutUint16(payload[2:4], position)
	for i, key := range keys {
		binary.LittleEndian.PutUint32(payload[4+4*i:], key)
	}

	return Make(ClassCFG, CfgValget, payload), nil
}

// ValgetResponse is a decoded UBX-CFG-VALGET (version 1) response.
type ValgetResponse struct {
	Layer    byte
	Position uint16
	CfgData  []byte
}

// ParseValget decodes a UBX-CFG-VALGET response message.
func ParseValget(msg []byte) (*ValgetResponse, error) {
	// check message
	if !Is(msg, ClassCFG, CfgValget) {
		return nil, fmt.Errorf("ubx: not a UBX-CFG-VALGET message")
	}
	payload := Payload(msg)
	if len(payload) < 4 {
		return nil, ErrShort
	}
	if payload[0] != 0x01 {
		return nil, fmt.Errorf("%w: %d", ErrVersion, payload[0])
	}

	return &ValgetResponse{
		Layer:    payload[1],
		Position: binary.LittleEndian.Uint16(payload[2:4]),
		CfgData:  payload[4:],
	}, nil
}

// Valdel builds a UBX-CFG-VALDEL (version 1) message. Only the BBR and Flash
// layers can be deleted from.
func Valdel(layers, transaction byte, keys ...uint32) ([]byte, error) {
	// check layers
	if layers == 0 || layers&^(LayerBBR|LayerFlash) != 0 {
		return nil, fmt.Errorf("%w: 0x%02x", ErrLayers, layers)
	}

	// check keys
	if len(keys) == 0 || len(keys) > ValdelMaxK {
		return nil, fmt.Errorf("%w: %d keys", ErrTooMany, len(keys))
	}

	// prepare payload
	payload := make([]byte, 4+4*len(keys))
	payload[0] = 0x01
	payload[1] = layers
	payload[2] = transaction
	for i, key := range keys {
		binary.LittleEndian.PutUint32(payload[4+4*i:], key)
	}

	return Make(ClassCFG, CfgValdel, payload), nil
}

// Navigation data sections for UBX-CFG-RST.
const (
	NavBbrHotstart  uint16 = 0x0000
	NavBbrEph       uint16 = 0x0001
	NavBbrAlm       uint16 = 0x0002
	NavBbrHealth    uint16 = 0x0004
	NavBbrKlob      uint16 = 0x0008
	NavBbrPos       uint16 = 0x0010
	NavBbrClkd      uint16 = 0x0020
	NavBbrOsc       uint16 = 0x0040
	NavBbrUTC       uint16 = 0x0080
	NavBbrRTC       uint16 = 0x0100
	NavBbrAOP       uint16 = 0x8000
	NavBbrWarmstart uint16 = 0x0001
	NavBbrColdstart uint16 = 0xffff
)

// Reset modes for UBX-CFG-RST.
const (
	ResetHWForced     byte = 0x00
	ResetSW           byte = 0x01
	ResetGNSS         byte = 0x02
	ResetHWControlled byte = 0x04
	ResetGNSSStop     byte = 0x08
	ResetGNSSStart    byte = 0x09
)

// Rst builds a UBX-CFG-RST message.
func Rst(navBbrMask uint16, resetMode byte) []byte {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint16(payload[0:2], navBbrMask)
	payload[2] = resetMode
	return Make(ClassCFG, CfgRst, payload)
}

// Masks for UBX-CFG-CFG.
const (
	CfgMaskNone uint32 = 0x00000000
	CfgMaskAll  uint32 = 0xffffffff
)

// Devices for UBX-CFG-CFG.
const (
	CfgDeviceBBR   byte = 0x01
	CfgDeviceFlash byte = 0x02
)

// Cfg builds a UBX-CFG-CFG message. A zero device mask omits the optional
// device field.
func Cfg(clearMask, saveMask, loadMask uint32, deviceMask byte) []byte {
	size := 12
	if deviceMask != 0 {
		size++
	}
	payload := make([]byte, size)
	binary.LittleEndian.PutUint32(payload[0:4], clearMask)
	binary.LittleEndian.PutUint32(payload[4:8], saveMask)
	binary.LittleEndian.PutUint32(payload[8:12], loadMask)
	if deviceMask != 0 {
		payload[12] = deviceMask
	}
	return Make(ClassCFG, CfgCfg, payload)
}
