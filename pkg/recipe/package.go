package recipe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v3"

	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

// ManifestName is the name of the package manifest.
const ManifestName = "manifest.yaml"

// ErrNoLibrary is returned if the build folder contains no library.
var ErrNoLibrary = errors.New("no library found")

// Export copies the exported sources from the recipe folder to the source
// folder.
func (r *Recipe) Export(layout Layout, out io.Writer) ([]string, error) {
	// prepare fresh source folder
	err := prune(layout.Source, out, layout.Recipe)
	if err != nil {
		return nil, err
	}

	// copy sources
	utils.Log(out, "Exporting sources...")
	files, err := utils.Copy(layout.Recipe, layout.Source, r.ExportsSources...)
	if err != nil {
		return nil, err
	}

	utils.Log(out, fmt.Sprintf("Exported %d files", len(files)))

	return files, nil
}

// File is a packaged file.
type File struct {
	Path string `yaml:"path"`
	Size int64  `yaml:"size"`
}

// Manifest describes a package.
type Manifest struct {
	Name     string      `yaml:"name"`
	Version  string      `yaml:"version"`
	Options  Options     `yaml:"options"`
	Settings Settings    `yaml:"settings"`
	Info     PackageInfo `yaml:"info"`
	Files    []File      `yaml:"files"`
}

// ReadManifest reads the manifest of the package in the provided folder.
func ReadManifest(dir string) (*Manifest, error) {
	// read file
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}

	// decode data
	var man Manifest
	err = yaml.Unmarshal(data, &man)
	if err != nil {
		return nil, err
	}

	return &man, nil
}

// Save will write the manifest to the provided package folder.
func (m *Manifest) Save(dir string) error {
	// encode manifest
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	// write file
	err = os.WriteFile(filepath.Join(dir, ManifestName), data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Package copies the libraries, the public headers and the README into the
// package folder and writes the package manifest.
func (r *Recipe) Package(layout Layout, opts Options, settings Settings, out io.Writer) (*Manifest, error) {
	var files []string

	// prepare fresh package folder
	err := prune(layout.Package, out, layout.Source, layout.Build, layout.Recipe)
	if err != nil {
		return nil, err
	}

	// copy libraries
	utils.Log(out, "Packaging libraries...")
	libs, err := utils.Copy(layout.Build, filepath.Join(layout.Package, "lib"), "*.a", "*.so")
	if err != nil {
		return nil, err
	} else if len(libs) == 0 {
		return nil, fmt.Errorf("%s: %w", layout.Build, ErrNoLibrary)
	}
	for _, lib := range libs {
		files = append(files, filepath.Join("lib", lib))
	}

	// copy headers
	utils.Log(out, "Packaging headers...")
	headers, err := utils.Copy(filepath.Join(layout.Source, "include"), filepath.Join(layout.Package, "include", r.Name), "*.h")
	if err != nil {
		return nil, err
	}
	for _, header := range headers {
		files = append(files, filepath.Join("include", r.Name, header))
	}

	// copy readme, preferring the library readme
	for _, dir := range []string{filepath.Join(layout.Source, "src"), layout.Source} {
		readme := filepath.Join(dir, "README.md")
		ok, err := utils.Exists(readme)
		if err != nil {
			return nil, err
		} else if !ok {
			continue
		}
		err = utils.Sync(readme, filepath.Join(layout.Package, "README.md"))
		if err != nil {
			return nil, err
		}
		files = append(files, "README.md")
		break
	}

	// prepare manifest
	sort.Strings(files)
	man := &Manifest{
		Name:     r.Name,
		Version:  r.Version,
		Options:  opts,
		Settings: settings,
		Info:     r.Info(),
	}

	// report files
	for _, file := range files {
		stat, err := os.Stat(filepath.Join(layout.Package, file))
		if err != nil {
			return nil, err
		}
		man.Files = append(man.Files, File{
			Path: filepath.ToSlash(file),
			Size: stat.Size(),
		})
		utils.Log(out, fmt.Sprintf("%s (%s)", filepath.ToSlash(file), bytefmt.ByteSize(uint64(stat.Size()))))
	}

	// write manifest
	err = man.Save(layout.Package)
	if err != nil {
		return nil, err
	}

	return man, nil
}
