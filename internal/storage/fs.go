package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TempPrefix is the name prefix of in-flight atomic write files.
const TempPrefix = ".zametki-tmp-"

// DirOption configures a Dir provider.
type DirOption func(*Dir)

// WithPerm sets the permission bits of written files (0644 by default).
func WithPerm(perm fs.FileMode) DirOption {
	return func(d *Dir) {
		d.perm = perm
	}
}

// Dir is a Provider over files in one local directory.
type Dir struct {
	root string
	perm fs.FileMode
}

// NewDir returns a provider rooted at an existing directory.
func NewDir(root string, opts ...DirOption) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	d := &Dir{root: abs, perm: 0o644}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Root returns the absolute directory the provider is rooted at.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) resolve(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", fmt.Errorf("storage: invalid file name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// Read returns the content of name. A missing file yields an error matching
// os.ErrNotExist.
func (d *Dir) Read(name string) ([]byte, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Write replaces name with content. Readers see either the old or the new
// file, never a partial one.
func (d *Dir) Write(name string, content []byte) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	return writeAtomic(path, content, d.perm)
}

// RemoveStaleTemp deletes temp files left in the root by interrupted writes
// and returns how many were removed.
func (d *Dir) RemoveStaleTemp() (int, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return 0, fmt.Errorf("storage: list root: %w", err)
	}
	var removed int
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), TempPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(d.root, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// writeAtomic writes to a sibling temp file, syncs it and renames it over path.
func writeAtomic(path string, content []byte, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}
