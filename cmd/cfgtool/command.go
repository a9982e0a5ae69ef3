package main

import (
	"time"

	"github.com/docopt/docopt-go"
)

var usage = `cfgtool - u-blox 9 positioning receivers configuration tool

Usage:
  cfgtool cfg2ubx -l <layers> [-i <infile>] [-o <outfile>] [-y] [-v|-q]
  cfgtool cfg2hex -l <layers> [-i <infile>] [-o <outfile>] [-y] [-x] [-v|-q]
  cfgtool cfg2c -l <layers> [-i <infile>] [-o <outfile>] [-y] [-x] [-v|-q]
  cfgtool cfg2rx -p <port> -l <layers> [-i <infile>] [-r <reset>] [-v|-q]
  cfgtool rx2cfg -p <port> -l <layer> [-o <outfile>] [-y] [-u] [-x] [-v|-q]
  cfgtool rx2list -p <port> -l <layer> [-u] [-v|-q]
  cfgtool dump -p <port> [-d <duration>] [-v|-q]
  cfgtool parse [-i <infile>] [-v|-q]
  cfgtool reset -p <port> -r <reset> [-v|-q]
  cfgtool cfginfo [<pattern>]
  cfgtool ports
  cfgtool monitor -p <port> [-v|-q]
  cfgtool -h | --help

Options:
  -p --port=<port>          The receiver port, e.g. /dev/ttyUSB0 or tcp://host:port.
  -l --layer=<layers>       The layer(s): RAM, BBR, Flash or Default (rx2cfg, rx2list).
  -i --input=<infile>       The input file, "-" for stdin [default: -].
  -o --output=<outfile>     The output file, "-" for stdout [default: -].
  -r --reset=<reset>        The reset: hot, warm, cold, default, factory, stop, start or gnss.
  -d --duration=<duration>  The dump duration, 0s for forever [default: 0s].
  -y --yes                  Overwrite the output file if it exists.
  -x --extra                Add extra comments to the output.
  -u --unknown              Include unknown items.
  -v --verbose              Enable debug output.
  -q --quiet                Only show warnings and errors.
  -h --help                 Show this screen.
`

type command struct {
	// commands
	cCfg2Ubx bool
	cCfg2Hex bool
	cCfg2C   bool
	cCfg2Rx  bool
	cRx2Cfg  bool
	cRx2List bool
	cDump    bool
	cParse   bool
	cReset   bool
	cCfgInfo bool
	cPorts   bool
	cMonitor bool

	// arguments
	aPattern string

	// options
	oPort     string
	oLayer    string
	oInput    string
	oOutput   string
	oReset    string
	oDuration time.Duration
	oYes      bool
	oExtra    bool
	oUnknown  bool
	oVerbose  bool
	oQuiet    bool
}

func parseCommand() *command {
	a, err := docopt.Parse(usage, nil, true, "", false)
	exitIfSet(err)

	return &command{
		// commands
		cCfg2Ubx: getBool(a["cfg2ubx"]),
		cCfg2Hex: getBool(a["cfg2hex"]),
		cCfg2C:   getBool(a["cfg2c"]),
		cCfg2Rx:  getBool(a["cfg2rx"]),
		cRx2Cfg:  getBool(a["rx2cfg"]),
		cRx2List: getBool(a["rx2list"]),
		cDump:    getBool(a["dump"]),
		cParse:   getBool(a["parse"]),
		cReset:   getBool(a["reset"]),
		cCfgInfo: getBool(a["cfginfo"]),
		cPorts:   getBool(a["ports"]),
		cMonitor: getBool(a["monitor"]),

		// arguments
		aPattern: getString(a["<pattern>"]),

		// options
		oPort:     getString(a["--port"]),
		oLayer:    getString(a["--layer"]),
		oInput:    getString(a["--input"]),
		oOutput:   getString(a["--output"]),
		oReset:    getString(a["--reset"]),
		oDuration: getDuration(a["--duration"]),
		oYes:      getBool(a["--yes"]),
		oExtra:    getBool(a["--extra"]),
		oUnknown:  getBool(a["--unknown"]),
		oVerbose:  getBool(a["--verbose"]),
		oQuiet:    getBool(a["--quiet"]),
	}
}

func getBool(field interface{}) bool {
	val, _ := field.(bool)
	return val
}

func getString(field interface{}) string {
	str, _ := field.(string)
	return str
}

func getDuration(field interface{}) time.Duration {
	d, _ := time.ParseDuration(getString(field))
	return d
}
