package registry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/depscope/depscope/pkg/errors"
)

// LoadOptions configures snapshot loading.
type LoadOptions struct {
	Workers int                  // parallel file parsers (default: GOMAXPROCS)
	Step    func()               // called once per file, for progress totals (optional)
	Logger  func(string, ...any) // debug/progress callback (optional)
}

// withDefaults returns a copy of LoadOptions with zero values replaced.
func (o LoadOptions) withDefaults() LoadOptions {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Step == nil {
		opts.Step = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Load parses a registry snapshot rooted at root into an Index.
//
// One parse task runs per package file, bounded by opts.Workers. Any
// malformed record or invalid semantic version fails the whole load with a
// PARSE_ERROR naming the offending file; no partial index is returned.
func Load(root string, opts LoadOptions) (Index, error) {
	opts = opts.withDefaults()

	files, err := packageFiles(root)
	if err != nil {
		return nil, err
	}
	opts.Logger("parsing %d package files", len(files))

	var (
		mu  sync.Mutex
		idx = make(Index, len(files))
	)

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for _, path := range files {
		g.Go(func() error {
			defer opts.Step()
			pkg, err := parseFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			idx[pkg.Name] = pkg
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Count returns the number of package files in the snapshot without parsing
// them. Useful for sizing progress reporting before a Load.
func Count(root string) (int, error) {
	files, err := packageFiles(root)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// packageFiles walks the sharded tree and returns every package file.
// Dot-directories (.git and friends) and files directly under the root
// (registry metadata like config.json) are skipped.
func packageFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		// Package files live at least one shard directory deep.
		if !strings.Contains(rel, string(filepath.Separator)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "walking registry snapshot %s", root)
	}
	return files, nil
}

// parseFile reads one newline-delimited package file. Records arrive in
// publish order; the result is re-sorted ascending by semantic version.
func parseFile(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "opening %s", path)
	}
	defer f.Close()

	pkg := &Package{Name: filepath.Base(path)}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var vr VersionRecord
		if err := json.Unmarshal(raw, &vr); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "%s:%d: malformed record", path, line)
		}
		sv, err := semver.StrictNewVersion(vr.Version)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "%s:%d: invalid version %q", path, line, vr.Version)
		}
		vr.Semver = sv

		if seen[vr.Version] {
			return nil, errors.New(errors.ErrCodeParse, "%s:%d: duplicate version %s", path, line, vr.Version)
		}
		seen[vr.Version] = true

		if vr.Name != "" {
			pkg.Name = vr.Name
		}
		pkg.Versions = append(pkg.Versions, &vr)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading %s", path)
	}

	sort.Slice(pkg.Versions, func(i, j int) bool {
		return pkg.Versions[i].Semver.LessThan(pkg.Versions[j].Semver)
	})
	return pkg, nil
}
