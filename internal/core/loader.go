package core

import "context"

// SceneLoader is the index-based front end over a GroupManager: it owns a
// fixed catalog of groups and loads them by position.
type SceneLoader struct {
	mgr    *GroupManager
	groups []Group
}

// NewSceneLoader returns a loader for groups driven by mgr. The groups slice
// is copied. Panics if mgr is nil.
func NewSceneLoader(mgr *GroupManager, groups []Group) *SceneLoader {
	if mgr == nil {
		panic("scenegroup: NewSceneLoader manager must not be nil")
	}
	cp := make([]Group, len(groups))
	copy(cp, groups)
	return &SceneLoader{mgr: mgr, groups: cp}
}

// Groups returns a copy of the catalog.
func (l *SceneLoader) Groups() []Group {
	cp := make([]Group, len(l.groups))
	copy(cp, l.groups)
	return cp
}

// Manager returns the underlying GroupManager.
func (l *SceneLoader) Manager() *GroupManager {
	return l.mgr
}

// LoadGroup loads the group at index. An index outside the catalog is
// logged as ErrOutOfRangeIndex and nil is returned without touching any
// scene. The progress sink (which may be nil) only ever receives clamped,
// non-decreasing values.
func (l *SceneLoader) LoadGroup(ctx context.Context, index int, progress Reporter, reloadDuplicates bool) error {
	if index < 0 || index >= len(l.groups) {
		Logger().Warn("scene group load skipped",
			"index", index, "groups", len(l.groups), "error", ErrOutOfRangeIndex)
		return nil
	}
	return l.mgr.LoadGroup(ctx, l.groups[index], NewMonotonicReporter(progress), reloadDuplicates)
}
