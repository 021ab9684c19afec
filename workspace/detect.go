package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Layout describes how an existing package is recognized on disk.
type Layout struct {
	Marker        string `koanf:"marker" yaml:"marker"`                 // File that must exist in the package directory
	MarkerContent string `koanf:"marker_content" yaml:"marker_content"` // Substring the marker must contain
	SourceExt     string `koanf:"source_ext" yaml:"source_ext"`         // Extension of package source files
}

// DefaultLayout recognizes wetwire-aws Python packages.
func DefaultLayout() Layout {
	return Layout{Marker: "__init__.py", MarkerContent: "setup_resources", SourceExt: ".py"}
}

// Detection is the result of Detect.
type Detection struct {
	Package string   // Package name (the directory base name)
	Files   []string // Sorted source files excluding the marker
}

// Found reports whether a package was detected.
func (d Detection) Found() bool { return d.Package != "" }

// Detect checks whether dir contains an existing package per layout. A missing
// marker, or a marker without the required content, is not an error.
func Detect(dir string, layout Layout) (Detection, error) {
	data, err := os.ReadFile(filepath.Join(dir, layout.Marker))
	if errors.Is(err, fs.ErrNotExist) {
		return Detection{}, nil
	}
	if err != nil {
		return Detection{}, fmt.Errorf("read package marker: %w", err)
	}

	if !strings.Contains(string(data), layout.MarkerContent) {
		return Detection{}, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Detection{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Detection{}, fmt.Errorf("list package: %w", err)
	}

	files := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layout.Marker {
			continue
		}
		if layout.SourceExt == "" || filepath.Ext(name) == layout.SourceExt {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	return Detection{Package: filepath.Base(abs), Files: files}, nil
}
