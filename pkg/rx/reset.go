package rx

import (
	"fmt"
	"strings"
	"time"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

// ResetKind selects a reset procedure.
type ResetKind int

// The available reset kinds.
const (
	ResetHot ResetKind = iota
	ResetWarm
	ResetCold
	ResetDefault
	ResetFactory
	ResetStop
	ResetStart
	ResetRestart
)

var resetNames = []string{"hot", "warm", "cold", "default", "factory", "stop", "start", "gnss"}

func (k ResetKind) String() string {
	if k < 0 || int(k) >= len(resetNames) {
		return "?"
	}
	return resetNames[k]
}

// ParseReset parses a reset kind name.
func ParseReset(str string) (ResetKind, error) {
	for i, name := range resetNames {
		if strings.EqualFold(str, name) {
			return ResetKind(i), nil
		}
	}
	return 0, fmt.Errorf("rx: unknown reset %q", str)
}

// ResetDelay is the time given to the receiver to restart.
var ResetDelay = 1500 * time.Millisecond

// Reset resets the receiver. Configuration resets clear the BBR and Flash
// layers and use a hardware reset after which the baudrate is detected
// again.
func (r *Receiver) Reset(kind ResetKind) error {
	var navBbr uint16
	var mode byte
	var clear, hardware bool

	switch kind {
	case ResetHot:
		navBbr, mode = ubx.NavBbrHotstart, ubx.ResetSW
	case ResetWarm:
		navBbr, mode = ubx.NavBbrWarmstart, ubx.ResetSW
	case ResetCold:
		navBbr, mode = ubx.NavBbrColdstart, ubx.ResetSW
	case ResetDefault:
		navBbr, mode, clear, hardware = ubx.NavBbrHotstart, ubx.ResetHWControlled, true, true
	case ResetFactory:
		navBbr, mode, clear, hardware = ubx.NavBbrColdstart, ubx.ResetHWControlled, true, true
	case ResetStop:
		navBbr, mode = ubx.NavBbrHotstart, ubx.ResetGNSSStop
	case ResetStart:
		navBbr, mode = ubx.NavBbrHotstart, ubx.ResetGNSSStart
	case ResetRestart:
		navBbr, mode = ubx.NavBbrHotstart, ubx.ResetGNSS
	default:
		return fmt.Errorf("rx: unknown reset %d", kind)
	}

	r.log.Info().Str("reset", kind.String()).Msg("resetting receiver")

	// clear configuration
	if clear {
		err := r.SendUbxCfg(ubx.Cfg(ubx.CfgMaskAll, ubx.CfgMaskNone, ubx.CfgMaskAll, ubx.CfgDeviceBBR|ubx.CfgDeviceFlash), 0)
		if err != nil {
			return fmt.Errorf("rx: clearing configuration failed: %w", err)
		}
	}

	// send reset, which is not acknowledged
	err := r.Send(ubx.Rst(navBbr, mode))
	if err != nil {
		return err
	}

	// await restart
	time.Sleep(ResetDelay)
	r.Flush()

	// detect baudrate again
	if hardware {
		_, err = r.Autobaud()
		if err != nil {
			return err
		}
	}

	return nil
}
