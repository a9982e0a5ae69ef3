package main

import (
	"fmt"
	"os"

	"github.com/ubloxcfg/ubloxcfg/pkg/rx"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubloxcfg"
	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

func exitIfSet(errs ...error) {
	for _, err := range errs {
		if err != nil {
			exitWithError(err.Error())
		}
	}
}

func exitWithError(str string) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", str)
	os.Exit(1)
}

func exitWithUsage(str string) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", str)
	os.Exit(2)
}

func configureLogging(cmd *command) {
	level := ""
	if cmd.oVerbose {
		level = "debug"
	} else if cmd.oQuiet {
		level = "warn"
	}
	utils.ConfigureLogger(level, nil)
}

func openReceiver(cmd *command) *rx.Receiver {
	args := rx.DefaultArgs()
	args.Verbose = cmd.oVerbose
	r, err := rx.Open(cmd.oPort, args)
	exitIfSet(err)

	return r
}

func loadConfig(path string) []ubloxcfg.KeyVal {
	// read file
	data, err := utils.Read(path)
	exitIfSet(err)

	// parse configuration
	kvs, err := ubloxcfg.LoadConfig(path, data)
	exitIfSet(err)
	if len(kvs) == 0 {
		exitWithError("configuration is empty")
	}

	return kvs
}

func writeOutput(cmd *command, data []byte) {
	exitIfSet(utils.Write(cmd.oOutput, data, cmd.oYes))
}
