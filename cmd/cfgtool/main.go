package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ubloxcfg/ubloxcfg/pkg/parser"
	"github.com/ubloxcfg/ubloxcfg/pkg/rx"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubloxcfg"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

func main() {
	// parse command
	cmd := parseCommand()

	// configure logging
	configureLogging(cmd)

	// run desired command
	if cmd.cCfg2Ubx {
		cfg2fmt(cmd, formatUBX)
	} else if cmd.cCfg2Hex {
		cfg2fmt(cmd, formatHex)
	} else if cmd.cCfg2C {
		cfg2fmt(cmd, formatC)
	} else if cmd.cCfg2Rx {
		cfg2rx(cmd)
	} else if cmd.cRx2Cfg {
		rx2cfg(cmd)
	} else if cmd.cRx2List {
		rx2list(cmd)
	} else if cmd.cDump {
		dump(cmd)
	} else if cmd.cParse {
		parse(cmd)
	} else if cmd.cReset {
		reset(cmd)
	} else if cmd.cCfgInfo {
		cfginfo(cmd)
	} else if cmd.cPorts {
		ports()
	} else if cmd.cMonitor {
		monitor(cmd)
	}
}

func parseLayers(cmd *command) byte {
	layers, err := ubloxcfg.ParseLayers(cmd.oLayer)
	if err != nil {
		exitWithUsage(err.Error())
	}

	return layers
}

func cfg2fmt(cmd *command, fmtType format) {
	// get layers
	layers := parseLayers(cmd)

	// load configuration
	utils.Log(os.Stderr, "Loading configuration...")
	kvs := loadConfig(cmd.oInput)

	// make messages
	utils.Log(os.Stderr, fmt.Sprintf("Converting %d items into UBX-CFG-VALSET messages...", len(kvs)))
	msgs, err := ubloxcfg.MakeValset(kvs, layers)
	exitIfSet(err)

	// write output
	writeOutput(cmd, formatValset(msgs, layers, fmtType, cmd.oExtra))
}

func cfg2rx(cmd *command) {
	// get layers
	layers := parseLayers(cmd)

	// get reset
	var resetKind rx.ResetKind
	if cmd.oReset != "" {
		var err error
		resetKind, err = rx.ParseReset(cmd.oReset)
		if err != nil {
			exitWithUsage(err.Error())
		}
	}

	// load configuration
	utils.Log(os.Stderr, "Loading configuration...")
	kvs := loadConfig(cmd.oInput)

	// open receiver
	r := openReceiver(cmd)
	defer r.Close()

	// apply configuration
	utils.Log(os.Stderr, fmt.Sprintf("Storing %d items in %s...", len(kvs), ubx.LayersString(layers)))
	exitIfSet(r.SetConfig(kvs, layers))

	// reset receiver
	if cmd.oReset != "" {
		utils.Log(os.Stderr, fmt.Sprintf("Resetting receiver (%s)...", resetKind))
		exitIfSet(r.Reset(resetKind))
	}
}

func readConfig(cmd *command) []ubloxcfg.KeyVal {
	// get layer
	layer, err := ubloxcfg.ParseLayer(cmd.oLayer)
	if err != nil {
		exitWithUsage(err.Error())
	}

	// open receiver
	r := openReceiver(cmd)
	defer r.Close()

	// read configuration
	utils.Log(os.Stderr, fmt.Sprintf("Reading configuration from %s layer...", ubx.LayerString(layer)))
	kvs, err := r.GetConfig(layer, []uint32{ubx.WildcardAll})
	exitIfSet(err)

	// filter unknown items
	if !cmd.oUnknown {
		kvs = lo.Filter(kvs, func(kv ubloxcfg.KeyVal, _ int) bool {
			_, ok := ubloxcfg.ItemByID(kv.ID)
			return ok
		})
	}

	return kvs
}

func rx2cfg(cmd *command) {
	// read configuration
	kvs := readConfig(cmd)

	// format configuration
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "# rx2cfg (%d items from %s layer)\n", len(kvs), strings.ToUpper(cmd.oLayer))
	exitIfSet(ubloxcfg.WriteConfig(&buf, kvs, cmd.oExtra))

	// write output
	writeOutput(cmd, buf.Bytes())
}

func rx2list(cmd *command) {
	// read configuration
	kvs := readConfig(cmd)

	// prepare table
	tbl := newTable("NAME", "ID", "TYPE", "VALUE")
	for _, kv := range kvs {
		item, ok := ubloxcfg.ItemByID(kv.ID)
		if !ok {
			item, _ = ubloxcfg.UnknownItem(kv.ID)
		}
		tbl.add(item.Name, fmt.Sprintf("0x%08x", kv.ID), item.Type.String(), ubloxcfg.StringifyValue(item, kv.Value))
	}

	// show table
	tbl.print(os.Stdout)
}

func dump(cmd *command) {
	// open receiver
	r := openReceiver(cmd)
	defer r.Close()

	// handle interrupts
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	// prepare deadline
	var deadline <-chan time.Time
	if cmd.oDuration > 0 {
		deadline = time.After(cmd.oDuration)
	}

	for {
		// check exit
		select {
		case <-interrupt:
			return
		case <-deadline:
			return
		default:
		}

		// get message
		msg, err := r.NextMessage(100 * time.Millisecond)
		if errors.Is(err, rx.ErrTimeout) {
			continue
		}
		exitIfSet(err)

		// print message
		fmt.Println(msg.String())
	}
}

func parse(cmd *command) {
	// read input
	data, err := utils.Read(cmd.oInput)
	exitIfSet(err)

	// prepare parser
	p := parser.New()
	p.Add(data)

	// print messages
	for {
		msg, ok := p.Process()
		if !ok {
			msg, ok = p.Flush()
			if !ok {
				break
			}
		}
		fmt.Println(msg.String())
	}

	// print stats
	s := p.Stats()
	utils.Log(os.Stderr, fmt.Sprintf("%d messages, %d bytes (UBX %d, NMEA %d, RTCM3 %d, garbage %d)",
		s.Messages, s.Bytes, s.UBX, s.NMEA, s.RTCM3, s.Garbage))
}

func reset(cmd *command) {
	// get reset
	kind, err := rx.ParseReset(cmd.oReset)
	if err != nil {
		exitWithUsage(err.Error())
	}

	// open receiver
	r := openReceiver(cmd)
	defer r.Close()

	// reset receiver
	utils.Log(os.Stderr, fmt.Sprintf("Resetting receiver (%s)...", kind))
	exitIfSet(r.Reset(kind))
}

func cfginfo(cmd *command) {
	// get pattern
	pattern := cmd.aPattern
	if pattern == "" {
		pattern = "*"
	}

	// prepare table
	tbl := newTable("NAME", "ID", "TYPE", "SCALE", "UNIT", "TITLE")
	for _, item := range ubloxcfg.ItemsMatching(pattern) {
		tbl.add(item.Name, fmt.Sprintf("0x%08x", item.ID), item.Type.String(), item.Scale, item.Unit, item.Title)
		for _, c := range item.Consts {
			tbl.add("  "+c.Name, fmt.Sprintf("0x%x", c.Value), "", "", "", c.Title)
		}
	}

	// show table
	tbl.print(os.Stdout)
}

func ports() {
	// list ports
	list, err := rx.ListPorts()
	exitIfSet(err)

	// prepare table
	tbl := newTable("PORT", "DESCRIPTION", "U-BLOX")
	for _, port := range list {
		tbl.add("ser://"+port.Path, port.Description, fmt.Sprintf("%t", port.Ublox))
	}

	// show table
	tbl.print(os.Stdout)
}
