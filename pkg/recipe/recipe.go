// Package recipe builds and packages the native ubloxcfg C library.
package recipe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

// FileName is the name of the optional recipe override file.
const FileName = "recipe.yaml"

// Recipe describes the package.
type Recipe struct {
	Name           string   `yaml:"name"`
	Version        string   `yaml:"version"`
	Author         string   `yaml:"author"`
	URL            string   `yaml:"url"`
	License        string   `yaml:"license"`
	Description    string   `yaml:"description"`
	Topics         []string `yaml:"topics"`
	Settings       []string `yaml:"settings"`
	ExportsSources []string `yaml:"exports_sources"`
	Makefile       string   `yaml:"makefile"`
	Libs           []string `yaml:"libs"`
}

// Default returns the built-in recipe.
func Default() *Recipe {
	return &Recipe{
		Name:           "ubloxcfg",
		Version:        "1.9",
		Author:         "Philippe Kehl",
		URL:            "https://github.com/phkehl/ubloxcfg.git",
		License:        "GPLv3",
		Description:    "u-blox 9 positioning receivers configuration library and tool",
		Topics:         []string{"GNSS"},
		Settings:       []string{"os", "arch", "compiler", "build_type"},
		ExportsSources: []string{"src/*", "include/*", "README.md", "simple_makefile.mk", "config.h.*"},
		Makefile:       "simple_makefile.mk",
		Libs:           []string{"ubloxcfg"},
	}
}

// Load returns the built-in recipe updated with the fields of the recipe file
// in the provided directory, if present.
func Load(dir string) (*Recipe, error) {
	// prepare recipe
	recipe := Default()

	// read file
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return recipe, nil
	} else if err != nil {
		return nil, err
	}

	// decode file
	err = yaml.Unmarshal(data, recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", FileName, err)
	}

	// check fields
	if recipe.Name == "" || recipe.Version == "" || recipe.Makefile == "" {
		return nil, fmt.Errorf("%s: name, version and makefile are required", FileName)
	}

	return recipe, nil
}

// Options are the package options.
type Options struct {
	Shared bool `yaml:"shared"`

	// FPIC is nil if the option has been removed.
	FPIC *bool `yaml:"fPIC,omitempty"`
}

// DefaultOptions returns a static build with position independent code.
func DefaultOptions() Options {
	fpic := true
	return Options{
		FPIC: &fpic,
	}
}

// Settings are the build settings.
type Settings struct {
	OS        string `yaml:"os"`
	Arch      string `yaml:"arch"`
	Compiler  string `yaml:"compiler"`
	BuildType string `yaml:"build_type"`

	// Libcxx and Cppstd are the C++ runtime settings.
	Libcxx string `yaml:"compiler.libcxx,omitempty"`
	Cppstd string `yaml:"compiler.cppstd,omitempty"`
}

// DefaultSettings returns the settings of the host.
func DefaultSettings() Settings {
	return Settings{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Compiler:  "gcc",
		BuildType: "Release",
		Libcxx:    "libstdc++11",
		Cppstd:    "17",
	}
}

// Configure finalizes the options and settings. The C++ runtime settings do
// not apply to the C library and shared libraries are always position
// independent.
func (r *Recipe) Configure(opts Options, settings Settings) (Options, Settings) {
	// remove C++ settings
	settings.Libcxx = ""
	settings.Cppstd = ""

	// default build type
	if settings.BuildType == "" {
		settings.BuildType = "Release"
	}

	// remove fPIC for shared builds
	if opts.Shared {
		opts.FPIC = nil
	}

	return opts, settings
}

// Layout are the folders used by the recipe steps.
type Layout struct {
	Recipe  string
	Source  string
	Build   string
	Package string
}

// DefaultLayout returns a layout with all working folders below
// "<recipe>/_ubloxpkg".
func DefaultLayout(recipe string) Layout {
	base := filepath.Join(recipe, "_ubloxpkg")
	return Layout{
		Recipe:  recipe,
		Source:  filepath.Join(base, "source"),
		Build:   filepath.Join(base, "build"),
		Package: filepath.Join(base, "package"),
	}
}

// PackageInfo is the linkage information for consumers.
type PackageInfo struct {
	Libs        []string `yaml:"libs"`
	IncludeDirs []string `yaml:"include_dirs"`
	LibDirs     []string `yaml:"lib_dirs"`
}

// Info returns the consumer linkage.
func (r *Recipe) Info() PackageInfo {
	return PackageInfo{
		Libs:        r.Libs,
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
	}
}

// prune empties the working folder unless it contains one of the protected
// folders.
func prune(dir string, out io.Writer, protected ...string) error {
	for _, folder := range protected {
		if utils.Contains(dir, folder) {
			return nil
		}
	}

	utils.Log(out, fmt.Sprintf("Cleaning %s...", filepath.Base(dir)))

	return utils.Clean(dir)
}
