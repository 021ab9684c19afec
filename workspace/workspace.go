// Package workspace tracks the package a Runner is building and performs its
// file I/O through a core.ArtifactStore.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hupe1980/agentpair/artifact"
	"github.com/hupe1980/agentpair/core"
)

var (
	// ErrInvalidFilename is returned for names that are not a plain file name.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrNoPackage is returned for file operations before a package exists.
	ErrNoPackage = errors.New("no package initialized")
)

// Options configures a Workspace.
type Options struct {
	// Store persists files. Defaults to an artifact.FileStore on disk.
	Store core.ArtifactStore
	// ExistingPackage names a package that already lives in the output
	// directory itself.
	ExistingPackage string
}

// Workspace is the Runner's view of the package under construction.
type Workspace struct {
	outputDir   string
	packageName string
	existing    bool
	store       core.ArtifactStore
}

// New creates a workspace rooted at outputDir.
func New(outputDir string, optFns ...func(o *Options)) *Workspace {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Store == nil {
		opts.Store = artifact.NewFileStore()
	}

	return &Workspace{
		outputDir:   outputDir,
		packageName: opts.ExistingPackage,
		existing:    opts.ExistingPackage != "",
		store:       opts.Store,
	}
}

// OutputDir returns the directory new packages are created in.
func (w *Workspace) OutputDir() string { return w.outputDir }

// PackageName returns the current package name, or "" before initialization.
func (w *Workspace) PackageName() string { return w.packageName }

// Existing reports whether the workspace edits a pre-existing package.
func (w *Workspace) Existing() bool { return w.existing }

// HasPackage reports whether a package has been initialized or detected.
func (w *Workspace) HasPackage() bool { return w.PackageDir() != "" }

// PackageDir returns the package directory: the output directory itself for
// existing packages, OutputDir/PackageName for new ones and "" before init.
func (w *Workspace) PackageDir() string {
	switch {
	case w.existing:
		return w.outputDir
	case w.packageName != "":
		return filepath.Join(w.outputDir, w.packageName)
	default:
		return ""
	}
}

// ImportRoot returns the directory the package is importable from.
func (w *Workspace) ImportRoot() string {
	if w.existing {
		return filepath.Dir(w.outputDir)
	}
	return w.outputDir
}

// SetPackage records a newly initialized package.
func (w *Workspace) SetPackage(name string) error {
	if err := ValidateFilename(name); err != nil {
		return fmt.Errorf("package name: %w", err)
	}
	w.packageName = name
	w.existing = false
	return nil
}

// WriteFile stores content under name in the package and returns the number
// of bytes written.
func (w *Workspace) WriteFile(name, content string) (int, error) {
	dir, err := w.scope(name)
	if err != nil {
		return 0, err
	}
	if err := w.store.Save(dir, name, []byte(content)); err != nil {
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	return len(content), nil
}

// ReadFile returns the content of name. Missing files yield artifact.ErrNotFound.
func (w *Workspace) ReadFile(name string) (string, error) {
	dir, err := w.scope(name)
	if err != nil {
		return "", err
	}
	data, err := w.store.Get(dir, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Files returns the content of every file in the package keyed by name.
func (w *Workspace) Files() (map[string]string, error) {
	dir := w.PackageDir()
	if dir == "" {
		return map[string]string{}, nil
	}

	names, err := w.store.List(dir)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(names))
	for _, name := range names {
		data, err := w.store.Get(dir, name)
		if err != nil {
			return nil, err
		}
		files[name] = string(data)
	}

	return files, nil
}

func (w *Workspace) scope(name string) (string, error) {
	dir := w.PackageDir()
	if dir == "" {
		return "", ErrNoPackage
	}
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	return dir, nil
}

// ValidateFilename accepts plain file names only: no path separators, no
// parent references and no NUL bytes.
func ValidateFilename(name string) error {
	switch {
	case strings.TrimSpace(name) == "",
		name == ".", name == "..",
		strings.ContainsAny(name, `/\`),
		strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}
