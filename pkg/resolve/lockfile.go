package resolve

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/synth"
)

// lockfileName is the file a successful resolution leaves behind under the
// descriptor's scratch path.
const lockfileName = "resolve.lock"

// LockedPackage is one fully resolved unit in a lockfile.
type LockedPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source,omitempty"`
	Checksum     string   `toml:"checksum,omitempty"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

// Lockfile is the complete, resolver-produced dependency closure for one
// package version.
type Lockfile struct {
	Version  int             `toml:"version"`
	Packages []LockedPackage `toml:"package"`
}

// LockfileCache persists lockfiles on disk, one per (package, version).
//
// The cache never invalidates: an entry written once is reused on every
// subsequent run, even if the registry snapshot has changed underneath it
// (a version yanked after a successful write still resolves from cache).
// Retention is the caller's policy, applied with Clean.
type LockfileCache struct {
	root string
}

// NewLockfileCache returns a cache rooted at dir. The directory is created
// lazily on first Store.
func NewLockfileCache(dir string) *LockfileCache {
	return &LockfileCache{root: dir}
}

// Root returns the cache directory.
func (c *LockfileCache) Root() string {
	return c.root
}

func lockfilePath(d *synth.Descriptor) string {
	return filepath.Join(d.ScratchPath, lockfileName)
}

// Load reads the cached lockfile for d. The second return reports whether an
// entry existed; a missing entry is not an error.
func (c *LockfileCache) Load(d *synth.Descriptor) (*Lockfile, bool, error) {
	data, err := os.ReadFile(lockfilePath(d))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStore, err, "read lockfile for %s", d.Key())
	}
	var lf Lockfile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStore, err, "parse lockfile for %s", d.Key())
	}
	return &lf, true, nil
}

// Store writes lf under d's scratch path. The lockfile lands in a temp file
// first and is moved into place with a rename, so a crash mid-write cannot
// leave a torn entry that a later run would mistake for a hit.
func (c *LockfileCache) Store(d *synth.Descriptor, lf *Lockfile) error {
	if err := os.MkdirAll(d.ScratchPath, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create scratch dir for %s", d.Key())
	}
	tmp, err := os.CreateTemp(d.ScratchPath, lockfileName+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create temp lockfile for %s", d.Key())
	}
	if err := toml.NewEncoder(tmp).Encode(lf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "encode lockfile for %s", d.Key())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "close temp lockfile for %s", d.Key())
	}
	if err := os.Rename(tmp.Name(), lockfilePath(d)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "commit lockfile for %s", d.Key())
	}
	return nil
}

// Clean removes the entire cache directory.
func (c *LockfileCache) Clean() error {
	if err := os.RemoveAll(c.root); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "clean lockfile cache at %s", c.root)
	}
	return nil
}
