package main

import (
	"fmt"
	"os"

	"github.com/docopt/docopt-go"
	"gopkg.in/yaml.v3"

	"github.com/ubloxcfg/ubloxcfg/pkg/recipe"
	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

var usage = `ubloxpkg - build and package the ubloxcfg library

Usage:
  ubloxpkg create [options] [--bundle=<file>]
  ubloxpkg export [options]
  ubloxpkg build [options]
  ubloxpkg package [options]
  ubloxpkg info [options]
  ubloxpkg -h | --help

Options:
  -r --recipe=<dir>        The recipe folder [default: .].
  -s --source=<dir>        The source folder.
  -b --build=<dir>         The build folder.
  -p --package=<dir>       The package folder.
  --shared                 Build a shared library.
  --no-fpic                Disable position independent code.
  --build-type=<type>      The build type [default: Release].
  --bundle=<file>          Also create a zip archive of the package.
  -h --help                Show this screen.
`

type command struct {
	// commands
	cCreate  bool
	cExport  bool
	cBuild   bool
	cPackage bool
	cInfo    bool

	// options
	oRecipe    string
	oSource    string
	oBuild     string
	oPackage   string
	oShared    bool
	oNoFPIC    bool
	oBuildType string
	oBundle    string
}

func parseCommand() *command {
	a, err := docopt.Parse(usage, nil, true, "", false)
	exitIfSet(err)

	return &command{
		// commands
		cCreate:  getBool(a["create"]),
		cExport:  getBool(a["export"]),
		cBuild:   getBool(a["build"]),
		cPackage: getBool(a["package"]),
		cInfo:    getBool(a["info"]),

		// options
		oRecipe:    getString(a["--recipe"]),
		oSource:    getString(a["--source"]),
		oBuild:     getString(a["--build"]),
		oPackage:   getString(a["--package"]),
		oShared:    getBool(a["--shared"]),
		oNoFPIC:    getBool(a["--no-fpic"]),
		oBuildType: getString(a["--build-type"]),
		oBundle:    getString(a["--bundle"]),
	}
}

func main() {
	// parse command
	cmd := parseCommand()

	// configure logging
	utils.ConfigureLogger("", nil)

	// load recipe
	r, err := recipe.Load(cmd.oRecipe)
	exitIfSet(err)

	// prepare layout
	layout := getLayout(cmd)

	// prepare options and settings
	opts, settings := configure(r, cmd)

	// run desired command
	if cmd.cCreate {
		_, err = r.Export(layout, os.Stdout)
		exitIfSet(err)
		exitIfSet(r.Build(layout, opts, settings, recipe.ExecRunner{}, os.Stdout))
		_, err = r.Package(layout, opts, settings, os.Stdout)
		exitIfSet(err)
		if cmd.oBundle != "" {
			_, err = r.Bundle(layout, cmd.oBundle, os.Stdout)
			exitIfSet(err)
		}
	} else if cmd.cExport {
		_, err = r.Export(layout, os.Stdout)
		exitIfSet(err)
	} else if cmd.cBuild {
		exitIfSet(r.Build(layout, opts, settings, recipe.ExecRunner{}, os.Stdout))
	} else if cmd.cPackage {
		_, err = r.Package(layout, opts, settings, os.Stdout)
		exitIfSet(err)
	} else if cmd.cInfo {
		info(r, opts, settings)
	}
}

func configure(r *recipe.Recipe, cmd *command) (recipe.Options, recipe.Settings) {
	// apply options
	opts := recipe.DefaultOptions()
	opts.Shared = cmd.oShared
	if cmd.oNoFPIC {
		*opts.FPIC = false
	}

	// apply settings
	settings := recipe.DefaultSettings()
	settings.BuildType = cmd.oBuildType

	return r.Configure(opts, settings)
}

func getLayout(cmd *command) recipe.Layout {
	// resolve recipe folder
	dir, err := utils.Resolve(cmd.oRecipe, "")
	exitIfSet(err)

	// prepare layout
	layout := recipe.DefaultLayout(dir)

	// apply overrides
	for _, override := range []struct {
		value  string
		target *string
	}{
		{cmd.oSource, &layout.Source},
		{cmd.oBuild, &layout.Build},
		{cmd.oPackage, &layout.Package},
	} {
		if override.value != "" {
			*override.target, err = utils.Resolve(override.value, "")
			exitIfSet(err)
		}
	}

	return layout
}

func info(r *recipe.Recipe, opts recipe.Options, settings recipe.Settings) {
	// encode info
	data, err := yaml.Marshal(map[string]any{
		"name":     r.Name,
		"version":  r.Version,
		"license":  r.License,
		"target":   r.Target(opts),
		"options":  opts,
		"settings": settings,
		"info":     r.Info(),
	})
	exitIfSet(err)

	fmt.Print(string(data))
}

func getBool(field interface{}) bool {
	val, _ := field.(bool)
	return val
}

func getString(field interface{}) string {
	str, _ := field.(string)
	return str
}

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
