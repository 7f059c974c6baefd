package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/giantswarm/scenegroup/internal/core"
	"github.com/giantswarm/scenegroup/internal/fileutil"
	"github.com/giantswarm/scenegroup/internal/sentinel"
)

// ErrUnresolvedHandle is returned by UnloadAsync for a handle whose load
// never produced a scene.
const ErrUnresolvedHandle = sentinel.Error("handle has no loaded scene")

// ErrDigestMismatch is returned by a load whose bundle no longer matches
// the digest recorded at import.
const ErrDigestMismatch = sentinel.Error("content digest mismatch")

// ErrClosed is returned by operations on a closed Store.
const ErrClosed = sentinel.Error("content store is closed")

const (
	bundleDir    = "bundles"
	indexFile    = "index.db"
	lockFile     = ".lock"
	bundleSuffix = ".bundle"
)

// Compile-time interface satisfaction check.
var _ core.AddressableStore = (*Store)(nil)

// Attacher registers scenes with the runtime once their content is in
// memory.
type Attacher interface {
	Attach(name string) error
	Detach(name string) error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithChunkSize sets the read size used while loading bundles.
func WithChunkSize(n int) StoreOption {
	return func(s *Store) { s.chunkSize = n }
}

// Store is a directory-backed core.AddressableStore.
type Store struct {
	dir       string
	index     *Index
	attacher  Attacher
	chunkSize int

	ctx    context.Context
	cancel context.CancelFunc

	// mu orders spawn against Close so wg.Add never races wg.Wait.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Open opens the store rooted at dir, creating the directory and index if
// they do not exist. Close must be called to release the index.
func Open(ctx context.Context, dir string, attacher Attacher, opts ...StoreOption) (*Store, error) {
	if dir == "" {
		return nil, errors.New("content directory must not be empty")
	}
	if attacher == nil {
		return nil, errors.New("content attacher must not be nil")
	}
	if err := fileutil.EnsureDir(filepath.Join(dir, bundleDir)); err != nil {
		return nil, err
	}
	index, err := OpenIndex(ctx, filepath.Join(dir, indexFile))
	if err != nil {
		return nil, err
	}

	// Background loads outlive the caller's ctx; Close cancels them.
	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Store{
		dir:       dir,
		index:     index,
		attacher:  attacher,
		chunkSize: fileutil.DefaultChunkSize,
		ctx:       bg,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the content directory.
func (s *Store) Dir() string { return s.dir }

// Index returns the address index.
func (s *Store) Index() *Index { return s.index }

func (s *Store) lockPath() string { return filepath.Join(s.dir, lockFile) }

// bundleName derives a stable file name for an address.
func bundleName(address string) string {
	return filepath.Join(bundleDir, uuid.NewSHA1(uuid.NameSpaceURL, []byte(address)).String()+bundleSuffix)
}

// Import copies the bundle at src into the store and indexes it under
// address. The scene it provides is named after the address, the same way
// core.Ref names a path, so group entries can refer to it by address.
// Re-importing an address replaces its bundle.
func (s *Store) Import(ctx context.Context, address, src string) (Record, error) {
	scene := core.NameFromPath(address)
	if scene == "" {
		return Record{}, fmt.Errorf("address %q has no scene name", address)
	}

	fl, err := fileutil.AcquireLock(ctx, s.lockPath(), fileutil.Exclusive)
	if err != nil {
		return Record{}, err
	}
	defer fileutil.ReleaseLock(core.Logger(), fl)

	rec := Record{Address: address, File: bundleName(address), Scene: scene}
	n, err := fileutil.CopyFileAtomic(src, filepath.Join(s.dir, rec.File))
	if err != nil {
		return Record{}, fmt.Errorf("import %s: %w", address, err)
	}
	rec.Size = n
	if rec.Digest, err = fileutil.FileDigest(filepath.Join(s.dir, rec.File)); err != nil {
		return Record{}, fmt.Errorf("import %s: %w", address, err)
	}

	if err := s.index.Put(ctx, rec); err != nil {
		return Record{}, err
	}
	core.Logger().Debug("content imported", "address", address, "scene", rec.Scene, "bytes", n)
	return rec, nil
}

// Remove deletes the bundle and index record for address.
func (s *Store) Remove(ctx context.Context, address string) error {
	rec, err := s.index.Resolve(ctx, address)
	if err != nil {
		return err
	}

	fl, err := fileutil.AcquireLock(ctx, s.lockPath(), fileutil.Exclusive)
	if err != nil {
		return err
	}
	defer fileutil.ReleaseLock(core.Logger(), fl)

	if err := os.Remove(filepath.Join(s.dir, rec.File)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove bundle %s: %w", rec.File, err)
	}
	return s.index.Delete(ctx, address)
}

// LoadAsync resolves address and starts reading its bundle. The handle's
// progress follows the bytes read; it resolves to the indexed scene once
// the scene is attached to the runtime. An unknown address fails here
// rather than through the handle.
func (s *Store) LoadAsync(address string) (core.Handle, error) {
	if s.ctx.Err() != nil {
		return nil, ErrClosed
	}
	rec, err := s.index.Resolve(s.ctx, address)
	if err != nil {
		return nil, err
	}

	t := core.NewTracker()
	err = s.spawn(func() {
		if err := s.load(rec, t); err != nil {
			t.Complete(fmt.Errorf("load %s: %w", address, err))
			return
		}
		t.Resolve(core.SceneInstance{Name: rec.Scene})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) load(rec Record, t *core.Tracker) error {
	fl, err := fileutil.AcquireLock(s.ctx, s.lockPath(), fileutil.Shared)
	if err != nil {
		return err
	}
	defer fileutil.ReleaseLock(core.Logger(), fl)

	digest := fileutil.NewDigest()
	err = fileutil.ReadWithProgress(s.ctx, filepath.Join(s.dir, rec.File), s.chunkSize, digest, func(read, total int64) {
		if total > 0 {
			// Attaching is the last step, so reading alone never reports 1.
			t.SetProgress(0.99 * float64(read) / float64(total))
		}
	})
	if err != nil {
		return err
	}
	if rec.Digest != "" {
		if got := fileutil.FormatDigest(digest); got != rec.Digest {
			return ErrDigestMismatch.Withf("%s: have %s, indexed %s", rec.File, got, rec.Digest)
		}
	}
	return s.attacher.Attach(rec.Scene)
}

// UnloadAsync detaches the scene h loaded.
func (s *Store) UnloadAsync(h core.Handle) (core.Operation, error) {
	if h == nil {
		return nil, ErrUnresolvedHandle
	}
	inst, ok := h.Result()
	if !ok {
		return nil, ErrUnresolvedHandle
	}

	t := core.NewTracker()
	if err := s.spawn(func() { t.Complete(s.attacher.Detach(inst.Name)) }); err != nil {
		return nil, err
	}
	return t, nil
}

// spawn runs fn on a tracked goroutine unless the store is closed.
func (s *Store) spawn(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.wg.Go(fn)
	return nil
}

// Close cancels in-flight loads, waits for them to settle and closes the
// index.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return s.index.Close()
}
