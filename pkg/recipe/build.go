package recipe

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

// Runner runs external commands.
type Runner interface {
	Run(dir string, env []string, out io.Writer, name string, arg ...string) error
}

// ExecRunner runs commands as processes.
type ExecRunner struct{}

// Run runs the named command in the provided directory. The additional
// environment is appended to the current environment.
func (ExecRunner) Run(dir string, env []string, out io.Writer, name string, arg ...string) error {
	// print command
	utils.Log(out, fmt.Sprintf("%s %s", name, strings.Join(arg, " ")))

	// construct command
	cmd := exec.Command(name, arg...)
	cmd.Dir = dir

	// connect output
	cmd.Stdout = out
	cmd.Stderr = out

	// inherit current environment
	cmd.Env = os.Environ()

	// override shell working directory
	for i, str := range cmd.Env {
		if strings.HasPrefix(str, "PWD=") {
			cmd.Env[i] = "PWD=" + dir
		}
	}

	// add build environment
	cmd.Env = append(cmd.Env, env...)

	// run command
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(arg, " "), err)
	}

	return nil
}

var buildTypeFlags = map[string]string{
	"Debug":          "-g -O0",
	"Release":        "-O3 -DNDEBUG",
	"RelWithDebInfo": "-O2 -g -DNDEBUG",
	"MinSizeRel":     "-Os -DNDEBUG",
}

// Generate returns the build environment as sorted "KEY=value" pairs.
func (r *Recipe) Generate(opts Options, settings Settings) ([]string, error) {
	// get build type flags
	flags, ok := buildTypeFlags[settings.BuildType]
	if !ok {
		return nil, fmt.Errorf("unknown build type %q", settings.BuildType)
	}

	// add position independent code
	if opts.FPIC != nil && *opts.FPIC {
		flags += " -fPIC"
	}

	// prepare environment
	env := map[string]string{
		"CFLAGS":  flags,
		"LDFLAGS": "",
	}
	if opts.Shared {
		env["LDFLAGS"] = "-shared"
	}

	// sort variables
	list := make([]string, 0, len(env))
	for key, value := range env {
		list = append(list, key+"="+value)
	}
	sort.Strings(list)

	return list, nil
}

// Target returns the make target for the options.
func (r *Recipe) Target(opts Options) string {
	if opts.Shared {
		return "shared"
	}
	return "static"
}

// Build prepares the build folder and runs the make target followed by a
// clean. A separate build folder is emptied and filled with the sources.
func (r *Recipe) Build(layout Layout, opts Options, settings Settings, runner Runner, out io.Writer) error {
	// prepare fresh build folder
	if layout.Build != layout.Source {
		err := prune(layout.Build, out, layout.Source, layout.Recipe)
		if err != nil {
			return err
		}

		// sync sources
		utils.Log(out, "Preparing build folder...")
		_, err = utils.Copy(layout.Source, layout.Build, "*")
		if err != nil {
			return err
		}
	}

	// check makefile
	ok, err := utils.Exists(filepath.Join(layout.Build, r.Makefile))
	if err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("missing %s in build folder", r.Makefile)
	}

	// generate environment
	env, err := r.Generate(opts, settings)
	if err != nil {
		return err
	}

	// build library
	target := r.Target(opts)
	utils.Log(out, fmt.Sprintf("Building %s library (%s)...", target, settings.BuildType))
	err = runner.Run(layout.Build, env, out, "make", target, "-f", r.Makefile)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	// clean intermediate files
	utils.Log(out, "Cleaning build folder...")
	err = runner.Run(layout.Build, env, out, "make", "clean", "-f", r.Makefile)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	return nil
}
