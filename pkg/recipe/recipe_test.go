package recipe

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls []string
	env   []string
	fail  string
}

func (r *fakeRunner) Run(dir string, env []string, _ io.Writer, name string, arg ...string) error {
	call := name + " " + strings.Join(arg, " ")
	r.calls = append(r.calls, call)
	r.env = env
	if r.fail != "" && strings.Contains(call, r.fail) {
		return errors.New("exit status 2")
	}

	// produce artifacts
	switch arg[0] {
	case "static":
		_ = os.WriteFile(filepath.Join(dir, "ubloxcfg.o"), []byte("obj"), 0644)
		return os.WriteFile(filepath.Join(dir, "libubloxcfg.a"), []byte("archive"), 0644)
	case "shared":
		_ = os.WriteFile(filepath.Join(dir, "ubloxcfg.o"), []byte("obj"), 0644)
		return os.WriteFile(filepath.Join(dir, "libubloxcfg.so"), []byte("shared object"), 0644)
	case "clean":
		return os.Remove(filepath.Join(dir, "ubloxcfg.o"))
	}

	return nil
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func prepare(t *testing.T) Layout {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/ff_ubx.c":       "// ubx",
		"src/ff_rx.c":        "// rx",
		"src/README.md":      "# library",
		"include/ff_ubx.h":   "// ubx",
		"include/ff_rx.h":    "// rx",
		"README.md":          "# ubloxcfg",
		"simple_makefile.mk": "static:\n",
		"config.h.in":        "// config",
		"cfgtool/main.c":     "// tool",
	})
	return DefaultLayout(dir)
}

func TestConfigure(t *testing.T) {
	r := Default()

	opts, settings := r.Configure(DefaultOptions(), DefaultSettings())
	assert.False(t, opts.Shared)
	require.NotNil(t, opts.FPIC)
	assert.True(t, *opts.FPIC)
	assert.Empty(t, settings.Libcxx)
	assert.Empty(t, settings.Cppstd)
	assert.Equal(t, "Release", settings.BuildType)

	opts, _ = r.Configure(Options{Shared: true, FPIC: DefaultOptions().FPIC}, Settings{})
	assert.True(t, opts.Shared)
	assert.Nil(t, opts.FPIC)
}

func TestGenerate(t *testing.T) {
	r := Default()

	env, err := r.Generate(DefaultOptions(), Settings{BuildType: "Release"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"CFLAGS=-O3 -DNDEBUG -fPIC", "LDFLAGS="}, env)

	noPIC := false
	env, err = r.Generate(Options{FPIC: &noPIC}, Settings{BuildType: "Debug"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"CFLAGS=-g -O0", "LDFLAGS="}, env)

	opts, settings := r.Configure(Options{Shared: true}, Settings{})
	env, err = r.Generate(opts, settings)
	assert.NoError(t, err)
	assert.Equal(t, []string{"CFLAGS=-O3 -DNDEBUG", "LDFLAGS=-shared"}, env)

	_, err = r.Generate(DefaultOptions(), Settings{BuildType: "Fast"})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	layout := prepare(t)

	files, err := Default().Export(layout, nil)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"README.md",
		"config.h.in",
		"include/ff_rx.h",
		"include/ff_ubx.h",
		"simple_makefile.mk",
		"src/README.md",
		"src/ff_rx.c",
		"src/ff_ubx.c",
	}, files)
	assert.False(t, exists(filepath.Join(layout.Source, "cfgtool", "main.c")))

	// repeated export skips working folders
	files, err = Default().Export(layout, nil)
	assert.NoError(t, err)
	assert.Len(t, files, 8)
}

func TestCreateStatic(t *testing.T) {
	layout := prepare(t)
	r := Default()
	runner := &fakeRunner{}

	_, err := r.Export(layout, nil)
	require.NoError(t, err)

	opts, settings := r.Configure(DefaultOptions(), DefaultSettings())
	err = r.Build(layout, opts, settings, runner, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"make static -f simple_makefile.mk",
		"make clean -f simple_makefile.mk",
	}, runner.calls)
	assert.Contains(t, runner.env, "CFLAGS=-O3 -DNDEBUG -fPIC")

	var out bytes.Buffer
	man, err := r.Package(layout, opts, settings, &out)
	require.NoError(t, err)
	assert.True(t, exists(filepath.Join(layout.Package, "lib", "libubloxcfg.a")))
	assert.True(t, exists(filepath.Join(layout.Package, "include", "ubloxcfg", "ff_ubx.h")))
	assert.True(t, exists(filepath.Join(layout.Package, "include", "ubloxcfg", "ff_rx.h")))
	assert.True(t, exists(filepath.Join(layout.Package, "README.md")))
	assert.False(t, exists(filepath.Join(layout.Package, "lib", "ubloxcfg.o")))
	assert.Contains(t, out.String(), "==> lib/libubloxcfg.a (7B)")

	readme, err := os.ReadFile(filepath.Join(layout.Package, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# library", string(readme))

	// manifest
	assert.Equal(t, []File{
		{Path: "README.md", Size: 9},
		{Path: "include/ubloxcfg/ff_rx.h", Size: 5},
		{Path: "include/ubloxcfg/ff_ubx.h", Size: 6},
		{Path: "lib/libubloxcfg.a", Size: 7},
	}, man.Files)

	loaded, err := ReadManifest(layout.Package)
	require.NoError(t, err)
	assert.Equal(t, man, loaded)
	assert.Equal(t, []string{"ubloxcfg"}, loaded.Info.Libs)
}

func TestCreateShared(t *testing.T) {
	layout := prepare(t)
	r := Default()
	runner := &fakeRunner{}

	_, err := r.Export(layout, nil)
	require.NoError(t, err)

	opts, settings := r.Configure(Options{Shared: true, FPIC: DefaultOptions().FPIC}, DefaultSettings())
	err = r.Build(layout, opts, settings, runner, nil)
	require.NoError(t, err)
	assert.Equal(t, "make shared -f simple_makefile.mk", runner.calls[0])
	assert.NotContains(t, strings.Join(runner.env, " "), "-fPIC")

	man, err := r.Package(layout, opts, settings, nil)
	require.NoError(t, err)
	assert.Nil(t, man.Options.FPIC)
	assert.True(t, exists(filepath.Join(layout.Package, "lib", "libubloxcfg.so")))
	assert.False(t, exists(filepath.Join(layout.Package, "lib", "libubloxcfg.a")))
}

func TestCreateStaticThenShared(t *testing.T) {
	layout := prepare(t)
	r := Default()

	create := func(opts Options) *Manifest {
		opts, settings := r.Configure(opts, DefaultSettings())
		_, err := r.Export(layout, nil)
		require.NoError(t, err)
		err = r.Build(layout, opts, settings, &fakeRunner{}, nil)
		require.NoError(t, err)
		man, err := r.Package(layout, opts, settings, nil)
		require.NoError(t, err)
		return man
	}

	man := create(DefaultOptions())
	assert.Contains(t, man.Files, File{Path: "lib/libubloxcfg.a", Size: 7})

	man = create(Options{Shared: true, FPIC: DefaultOptions().FPIC})
	assert.False(t, exists(filepath.Join(layout.Build, "libubloxcfg.a")))
	assert.False(t, exists(filepath.Join(layout.Package, "lib", "libubloxcfg.a")))
	assert.True(t, exists(filepath.Join(layout.Package, "lib", "libubloxcfg.so")))
	assert.Equal(t, []File{
		{Path: "README.md", Size: 9},
		{Path: "include/ubloxcfg/ff_rx.h", Size: 5},
		{Path: "include/ubloxcfg/ff_ubx.h", Size: 6},
		{Path: "lib/libubloxcfg.so", Size: 13},
	}, man.Files)
}

func TestExportPrunesSource(t *testing.T) {
	layout := prepare(t)
	r := Default()

	writeFiles(t, layout.Source, map[string]string{
		"src/removed.c": "// gone",
	})

	_, err := r.Export(layout, nil)
	require.NoError(t, err)
	assert.False(t, exists(filepath.Join(layout.Source, "src", "removed.c")))
	assert.True(t, exists(filepath.Join(layout.Source, "src", "ff_ubx.c")))

	// folders holding the recipe are never emptied
	inPlace := layout
	inPlace.Source = layout.Recipe
	_, err = r.Export(inPlace, nil)
	require.NoError(t, err)
	assert.True(t, exists(filepath.Join(layout.Recipe, "src", "ff_ubx.c")))
	assert.True(t, exists(filepath.Join(layout.Recipe, "cfgtool", "main.c")))
}

func TestBuildFailure(t *testing.T) {
	layout := prepare(t)
	r := Default()
	runner := &fakeRunner{fail: "static"}

	_, err := r.Export(layout, nil)
	require.NoError(t, err)

	err = r.Build(layout, DefaultOptions(), DefaultSettings(), runner, nil)
	assert.ErrorContains(t, err, "exit status 2")
	assert.Len(t, runner.calls, 1)

	_, err = r.Package(layout, DefaultOptions(), DefaultSettings(), nil)
	assert.ErrorIs(t, err, ErrNoLibrary)
}

func TestBuildMissingMakefile(t *testing.T) {
	layout := DefaultLayout(t.TempDir())
	runner := &fakeRunner{}

	err := Default().Build(layout, DefaultOptions(), DefaultSettings(), runner, nil)
	assert.ErrorContains(t, err, "missing simple_makefile.mk")
	assert.Empty(t, runner.calls)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	r, err := Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, Default(), r)

	writeFiles(t, dir, map[string]string{
		FileName: "version: \"2.0\"\nlibs: [ubloxcfg, ff]\n",
	})
	r, err = Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, "2.0", r.Version)
	assert.Equal(t, "ubloxcfg", r.Name)
	assert.Equal(t, []string{"ubloxcfg", "ff"}, r.Info().Libs)

	writeFiles(t, dir, map[string]string{
		FileName: "name: \"\"\n",
	})
	_, err = Load(dir)
	assert.Error(t, err)
}

func TestBundle(t *testing.T) {
	layout := prepare(t)
	r := Default()

	_, err := r.Export(layout, nil)
	require.NoError(t, err)
	err = r.Build(layout, DefaultOptions(), DefaultSettings(), &fakeRunner{}, nil)
	require.NoError(t, err)
	_, err = r.Package(layout, DefaultOptions(), DefaultSettings(), nil)
	require.NoError(t, err)

	file, err := r.Bundle(layout, filepath.Join(t.TempDir(), "pkg.zip"), nil)
	require.NoError(t, err)

	zr, err := zip.OpenReader(file)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"README.md",
		"include/ubloxcfg/ff_rx.h",
		"include/ubloxcfg/ff_ubx.h",
		"lib/libubloxcfg.a",
		"manifest.yaml",
	}, names)
}

func TestBundleWriteFailure(t *testing.T) {
	f, err := os.OpenFile("/dev/full", os.O_WRONLY, 0)
	if err != nil {
		t.Skip("no /dev/full")
	}
	_ = f.Close()

	layout := prepare(t)
	r := Default()

	_, err = r.Export(layout, nil)
	require.NoError(t, err)
	err = r.Build(layout, DefaultOptions(), DefaultSettings(), &fakeRunner{}, nil)
	require.NoError(t, err)
	_, err = r.Package(layout, DefaultOptions(), DefaultSettings(), nil)
	require.NoError(t, err)

	_, err = r.Bundle(layout, "/dev/full", nil)
	assert.Error(t, err)
}
