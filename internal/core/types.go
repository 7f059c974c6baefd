package core

import (
	"fmt"
	"path"
	"strings"
)

// StoreKind identifies which backing store owns a scene.
type StoreKind int

const (
	// Regular scenes are built into the engine and loaded through the Runtime.
	Regular StoreKind = iota

	// Addressable scenes are resolved by address through an AddressableStore.
	Addressable
)

// IsValid reports whether k is a recognized StoreKind value.
func (k StoreKind) IsValid() bool {
	switch k {
	case Regular, Addressable:
		return true
	default:
		return false
	}
}

// String returns the lower-case name of the store kind.
func (k StoreKind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Addressable:
		return "addressable"
	default:
		return fmt.Sprintf("StoreKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k StoreKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid store kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is
// case-insensitive.
func (k *StoreKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "regular":
		*k = Regular
	case "addressable":
		*k = Addressable
	default:
		return fmt.Errorf("unknown store kind %q", string(text))
	}
	return nil
}

// Role is descriptive metadata attached to a group entry. Only ActiveScene
// affects control flow: it selects the scene promoted after a group load.
type Role int

const (
	ActiveScene Role = iota
	MainMenu
	UserInterface
	HUD
	Cinematic
	Environment
	Tooling
)

var roleNames = [...]string{
	ActiveScene:   "ActiveScene",
	MainMenu:      "MainMenu",
	UserInterface: "UserInterface",
	HUD:           "HUD",
	Cinematic:     "Cinematic",
	Environment:   "Environment",
	Tooling:       "Tooling",
}

// IsValid reports whether r is a recognized Role value.
func (r Role) IsValid() bool {
	return r >= ActiveScene && r <= Tooling
}

// String returns the role name.
func (r Role) String() string {
	if !r.IsValid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is
// case-insensitive.
func (r *Role) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	for i, name := range roleNames {
		if strings.EqualFold(name, s) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", string(text))
}

// Ref points at a loadable scene. Path is what the backing store loads;
// Name (derived from Path) is the identifier used for every lookup, diff,
// unload match and the active-scene pointer.
type Ref struct {
	Path string
	Kind StoreKind
}

// Name returns the scene name: the last path element without its extension.
func (r Ref) Name() string {
	return NameFromPath(r.Path)
}

// NameFromPath returns the scene name a path refers to: its last element
// without extension. Backslashes count as separators. Returns "" for a
// path with no last element.
func NameFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// String returns "kind:path".
func (r Ref) String() string {
	return r.Kind.String() + ":" + r.Path
}

// Entry is one scene of a Group.
type Entry struct {
	Ref
	Role Role
}

// Group is a named, ordered set of scenes loaded together. A Group is
// immutable for the duration of one load cycle.
type Group struct {
	Name    string
	Entries []Entry
}

// FindNameByRole returns the name of the first entry with the given role,
// or "" if there is none.
func (g Group) FindNameByRole(role Role) string {
	for _, e := range g.Entries {
		if e.Role == role {
			return e.Name()
		}
	}
	return ""
}

// Names returns the entry names in declaration order.
func (g Group) Names() []string {
	names := make([]string, 0, len(g.Entries))
	for _, e := range g.Entries {
		names = append(names, e.Name())
	}
	return names
}

// Contains reports whether the group has an entry with the given name.
func (g Group) Contains(name string) bool {
	for _, e := range g.Entries {
		if e.Name() == name {
			return true
		}
	}
	return false
}

// SceneInstance is the resolved result of an addressable load.
type SceneInstance struct {
	Name string
}

// Operation is one in-flight load or unload. Implementations must be safe to
// poll from any goroutine. Progress is in [0,1]. Err is meaningful only once
// Done reports true.
type Operation interface {
	Done() bool
	Progress() float64
	Err() error
}

// Handle is an in-flight addressable load. Result reports the loaded scene
// once the load has succeeded; ok is false before that or on failure.
type Handle interface {
	Operation
	Result() (inst SceneInstance, ok bool)
}

// Runtime is the engine's scene runtime, which doubles as the regular
// backing store. Its loaded-scene list includes scenes loaded through any
// store, and it owns the single active-scene pointer.
type Runtime interface {
	// LoadAsync starts loading a built-in scene additively.
	LoadAsync(path string) (Operation, error)
	// UnloadAsync starts unloading a loaded scene by name.
	UnloadAsync(name string) (Operation, error)
	// LoadedSceneNames returns the names of every loaded scene in load order.
	LoadedSceneNames() []string
	// ActiveScene returns the name of the active scene, or "".
	ActiveScene() string
	// SetActive promotes a loaded scene to be the active scene.
	SetActive(name string) error
}

// AddressableStore loads content scenes by address.
type AddressableStore interface {
	LoadAsync(address string) (Handle, error)
	UnloadAsync(h Handle) (Operation, error)
}
