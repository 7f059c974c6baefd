package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/giantswarm/scenegroup/internal/core"
	"github.com/giantswarm/scenegroup/internal/fileutil"
	"github.com/giantswarm/scenegroup/internal/sentinel"
)

// ErrInvalidCatalog is returned when a catalog fails validation.
const ErrInvalidCatalog = sentinel.Error("invalid catalog")

// File is the decoded form of a catalog.
type File struct {
	Groups []GroupSpec `toml:"groups"`
}

// GroupSpec is one [[groups]] table.
type GroupSpec struct {
	Name   string      `toml:"name"`
	Scenes []SceneSpec `toml:"scenes"`
}

// SceneSpec is one [[groups.scenes]] table. Store defaults to regular; Role
// is required.
type SceneSpec struct {
	Path  string          `toml:"path"`
	Store *core.StoreKind `toml:"store"`
	Role  *core.Role      `toml:"role"`
}

// Parse decodes and validates a catalog. Unknown keys are rejected.
func Parse(r io.Reader) ([]core.Group, error) {
	var f File
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, ErrInvalidCatalog.Withf("%s", strict.String())
		}
		return nil, ErrInvalidCatalog.With(err)
	}
	if err := f.Validate(); err != nil {
		return nil, ErrInvalidCatalog.With(err)
	}
	return f.ToGroups(), nil
}

// Load reads the catalog at path under a shared file lock, so it is never
// read while Save rewrites it.
func Load(ctx context.Context, path string) ([]core.Group, error) {
	fl, err := fileutil.AcquireLock(ctx, path+".lock", fileutil.Shared)
	if err != nil {
		return nil, err
	}
	defer fileutil.ReleaseLock(core.Logger(), fl)

	data, err := os.ReadFile(path) //nolint:gosec // G304: caller-supplied catalog path
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	groups, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	core.Logger().Debug("catalog loaded", "path", path, "groups", len(groups))
	return groups, nil
}

// Save encodes groups and atomically replaces the catalog at path under an
// exclusive file lock.
func Save(ctx context.Context, path string, groups []core.Group) error {
	data, err := Marshal(groups)
	if err != nil {
		return err
	}

	fl, err := fileutil.AcquireLock(ctx, path+".lock", fileutil.Exclusive)
	if err != nil {
		return err
	}
	defer fileutil.ReleaseLock(core.Logger(), fl)

	tmp, err := os.CreateTemp("", "catalog-*.toml")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if _, err := fileutil.CopyFileAtomic(tmpPath, path); err != nil {
		return fmt.Errorf("save catalog %s: %w", path, err)
	}
	return nil
}

// Marshal encodes groups in catalog form.
func Marshal(groups []core.Group) ([]byte, error) {
	f := File{Groups: make([]GroupSpec, 0, len(groups))}
	for _, g := range groups {
		gs := GroupSpec{Name: g.Name, Scenes: make([]SceneSpec, 0, len(g.Entries))}
		for _, e := range g.Entries {
			store, role := e.Kind, e.Role
			gs.Scenes = append(gs.Scenes, SceneSpec{Path: e.Path, Store: &store, Role: &role})
		}
		f.Groups = append(f.Groups, gs)
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// Validate reports every problem in f.
func (f File) Validate() error {
	var errs []error
	for i, g := range f.Groups {
		label := fmt.Sprintf("group %d", i)
		if g.Name != "" {
			label = fmt.Sprintf("group %q", g.Name)
		}

		seen := make(map[string]int, len(g.Scenes))
		actives := 0
		for j, s := range g.Scenes {
			name := core.NameFromPath(s.Path)
			switch {
			case name == "":
				errs = append(errs, fmt.Errorf("%s scene %d: path %q has no scene name", label, j, s.Path))
			case seen[name] > 0:
				errs = append(errs, fmt.Errorf("%s scene %d: duplicate scene name %q", label, j, name))
			}
			seen[name]++

			if s.Store != nil && !s.Store.IsValid() {
				errs = append(errs, fmt.Errorf("%s scene %d: invalid store", label, j))
			}
			if s.Role == nil {
				errs = append(errs, fmt.Errorf("%s scene %d: role is required", label, j))
			} else if *s.Role == core.ActiveScene {
				actives++
			}
		}
		if actives > 1 {
			errs = append(errs, fmt.Errorf("%s: %d scenes have role ActiveScene, at most one allowed", label, actives))
		}
	}
	return errors.Join(errs...)
}

// ToGroups converts f to core groups. f must be valid.
func (f File) ToGroups() []core.Group {
	groups := make([]core.Group, 0, len(f.Groups))
	for _, g := range f.Groups {
		cg := core.Group{Name: g.Name, Entries: make([]core.Entry, 0, len(g.Scenes))}
		for _, s := range g.Scenes {
			kind := core.Regular
			if s.Store != nil {
				kind = *s.Store
			}
			var role core.Role
			if s.Role != nil {
				role = *s.Role
			}
			cg.Entries = append(cg.Entries, core.Entry{Ref: core.Ref{Path: s.Path, Kind: kind}, Role: role})
		}
		groups = append(groups, cg)
	}
	return groups
}
