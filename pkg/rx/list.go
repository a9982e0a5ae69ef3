package rx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.bug.st/serial/enumerator"
)

// UbloxVID is the USB vendor id of u-blox receivers.
const UbloxVID = "1546"

var knownPrefixes = []string{"cu.SLAB", "cu.usbserial", "cu.usbmodem", "ttyUSB", "ttyACM"}

// PortInfo describes an available serial port.
type PortInfo struct {
	Path        string
	Description string
	Ublox       bool
}

// ListPorts returns the serial ports of u-blox receivers and of known USB
// serial adapters. Receivers are listed first.
func ListPorts() ([]PortInfo, error) {
	// get list
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	// filter ports
	var ports []PortInfo
	for _, port := range list {
		ublox := port.IsUSB && strings.EqualFold(port.VID, UbloxVID)
		known := lo.ContainsBy(knownPrefixes, func(prefix string) bool {
			return strings.Contains(port.Name, prefix)
		})
		if !ublox && !known {
			continue
		}

		// describe port
		desc := port.Product
		if port.IsUSB {
			desc = strings.TrimSpace(fmt.Sprintf("%s:%s %s", port.VID, port.PID, port.Product))
		}

		ports = append(ports, PortInfo{
			Path:        port.Name,
			Description: desc,
			Ublox:       ublox,
		})
	}

	// sort receivers first and in reverse to list combined ports with their
	// serial port first
	sort.SliceStable(ports, func(i, j int) bool {
		if ports[i].Ublox != ports[j].Ublox {
			return ports[i].Ublox
		}
		return ports[i].Path > ports[j].Path
	})

	return ports, nil
}

// FindPort returns the first listed port or an empty string.
func FindPort() string {
	// list ports
	ports, err := ListPorts()
	if err != nil || len(ports) == 0 {
		return ""
	}

	return ports[0].Path
}
