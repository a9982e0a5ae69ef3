package recipe

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

// Bundle will create a zip archive of the package folder. The file name
// defaults to "<name>-<version>.zip".
func (r *Recipe) Bundle(layout Layout, file string, out io.Writer) (string, error) {
	// read manifest
	man, err := ReadManifest(layout.Package)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest: %w", err)
	}

	// ensure file name
	if file == "" {
		file = man.Name + "-" + man.Version + ".zip"
	}

	// create archive
	utils.Log(out, fmt.Sprintf("Creating %s...", file))
	f, err := os.Create(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// create writer
	w := zip.NewWriter(f)

	// write packaged files and manifest
	for _, name := range append(filesOf(man), ManifestName) {
		data, err := os.ReadFile(filepath.Join(layout.Package, filepath.FromSlash(name)))
		if err != nil {
			return "", err
		}
		zw, err := w.Create(name)
		if err != nil {
			return "", err
		}
		_, err = zw.Write(data)
		if err != nil {
			return "", err
		}
	}

	// finish archive
	err = w.Close()
	if err != nil {
		return "", err
	}

	// close file
	err = f.Close()
	if err != nil {
		return "", err
	}

	return file, nil
}

func filesOf(man *Manifest) []string {
	list := make([]string, 0, len(man.Files))
	for _, file := range man.Files {
		list = append(list, file.Path)
	}
	return list
}
