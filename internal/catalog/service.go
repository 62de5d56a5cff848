// Package catalog owns the canonical menu tree and answers searches against it.
//
// The tree is held as an immutable Snapshot swapped atomically on reload, so
// a search always runs against one consistent version of the tree.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/starford/menutree/internal/apperr"
	"github.com/starford/menutree/internal/menu"
	"github.com/starford/menutree/internal/parser"
	"github.com/starford/menutree/internal/snapshot"
	"github.com/starford/menutree/internal/storage"
)

// Snapshot sources.
const (
	SourceFile     = "file"
	SourceSnapshot = "snapshot"
)

const defaultCacheSize = 256

// Snapshot is one validated version of the canonical tree.
type Snapshot struct {
	Tree     menu.Tree `json:"items"`
	Checksum string    `json:"checksum"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Options configure a Service.
type Options struct {
	// Path of the tree document relative to the storage root.
	Path string
	// CacheSize bounds the number of cached search results.
	CacheSize int
	// SearchOptions are passed to every menu.Search call.
	SearchOptions []menu.Option
	Logger        *slog.Logger
}

// Service coordinates the source document, the SQLite snapshot and searches.
type Service struct {
	store   storage.Provider
	db      snapshot.Store
	path    string
	format  parser.Format
	opts    []menu.Option
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
	cache   *lru.Cache[string, menu.Result]
	group   singleflight.Group
}

// NewService creates a catalog over the document at opts.Path. db may be nil,
// in which case no last known good snapshot is kept.
func NewService(store storage.Provider, db snapshot.Store, opts Options) (*Service, error) {
	format, err := parser.FormatFromPath(opts.Path)
	if err != nil {
		return nil, err
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, menu.Result](size)
	if err != nil {
		return nil, fmt.Errorf("catalog: create cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		db:     db,
		path:   opts.Path,
		format: format,
		opts:   opts.SearchOptions,
		logger: logger,
		cache:  cache,
	}, nil
}

// Load publishes the initial tree. It reads the source document and, if that
// fails, falls back to the last snapshot saved in SQLite.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	snap, _, err := s.Reload(ctx)
	if err == nil {
		return snap, nil
	}
	if s.db == nil {
		return nil, err
	}

	s.logger.Warn("catalog: source unusable, restoring snapshot",
		slog.String("path", s.path),
		slog.String("error", err.Error()))

	tree, cs, dbErr := s.db.Load(ctx)
	if dbErr != nil {
		return nil, errors.Join(err, fmt.Errorf("catalog: restore snapshot: %w", dbErr))
	}
	restored := &Snapshot{Tree: tree, Checksum: cs, Source: SourceSnapshot, LoadedAt: time.Now()}
	s.publish(restored)
	return restored, nil
}

type reloadResult struct {
	snap    *Snapshot
	changed bool
}

// Reload re-reads the source document. An unchanged checksum keeps the current
// snapshot and reports changed=false. An invalid document leaves the current
// snapshot in place and returns the error. Concurrent calls share one read.
func (s *Service) Reload(ctx context.Context) (*Snapshot, bool, error) {
	v, err, _ := s.group.Do("reload", func() (any, error) {
		return s.reload(ctx)
	})
	if err != nil {
		return nil, false, err
	}
	r := v.(reloadResult)
	return r.snap, r.changed, nil
}

func (s *Service) reload(ctx context.Context) (reloadResult, error) {
	data, err := s.store.Read(s.path)
	if err != nil {
		return reloadResult{}, fmt.Errorf("catalog: read source: %w", err)
	}
	cs := storage.Checksum(data)
	if cur := s.current.Load(); cur != nil && cur.Checksum == cs && cur.Source == SourceFile {
		return reloadResult{snap: cur}, nil
	}

	tree, err := parser.Parse(data, s.format)
	if err != nil {
		return reloadResult{}, fmt.Errorf("catalog: parse %s: %w", s.path, err)
	}

	snap := &Snapshot{Tree: tree, Checksum: cs, Source: SourceFile, LoadedAt: time.Now()}
	s.publish(snap)

	if s.db != nil {
		if saved, err := s.db.Save(ctx, tree, cs); err != nil {
			s.logger.Warn("catalog: save snapshot failed", slog.String("error", err.Error()))
		} else if saved {
			s.logger.Debug("catalog: snapshot saved", slog.String("checksum", cs))
		}
	}

	s.logger.Info("catalog: tree loaded",
		slog.String("path", s.path),
		slog.String("checksum", cs),
		slog.Int("nodes", tree.Len()))
	return reloadResult{snap: snap, changed: true}, nil
}

func (s *Service) publish(snap *Snapshot) {
	s.current.Store(snap)
	s.cache.Purge()
}

// Current returns the published snapshot or apperr.ErrNotFound before Load.
func (s *Service) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("catalog: no tree loaded: %w", apperr.ErrNotFound)
	}
	return snap, nil
}

// Search runs query against the current snapshot. Results are cached per
// snapshot and shared between callers, so they must not be modified.
func (s *Service) Search(_ context.Context, query string) (menu.Result, error) {
	snap, err := s.Current()
	if err != nil {
		return menu.Result{}, err
	}
	key := snap.Checksum + "\x00" + query
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}
	res := menu.Search(snap.Tree, query, s.opts...)
	// A reload may have swapped the snapshot meanwhile; only cache results
	// that still belong to the published tree.
	if s.current.Load() == snap {
		s.cache.Add(key, res)
	}
	return res, nil
}

// LabelOf returns the plain label for key, or "" when it does not exist.
func (s *Service) LabelOf(_ context.Context, key string) string {
	snap := s.current.Load()
	if snap == nil {
		return ""
	}
	return menu.LabelOf(key, snap.Tree)
}

// NodePath describes where a node sits in the tree.
type NodePath struct {
	Key        string    `json:"key"`
	Path       menu.Path `json:"path"`
	Labels     []string  `json:"labels"`
	Breadcrumb string    `json:"breadcrumb"`
}

// PathOf resolves the key path, labels and breadcrumb of key.
func (s *Service) PathOf(_ context.Context, key string) (*NodePath, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	path, ok := menu.PathOf(key, snap.Tree)
	if !ok {
		return nil, fmt.Errorf("catalog: node %q: %w", key, apperr.ErrNotFound)
	}
	labels := menu.PathLabels(path, snap.Tree)
	return &NodePath{
		Key:        key,
		Path:       path,
		Labels:     labels,
		Breadcrumb: menu.Breadcrumb(path[:len(path)-1], labels[len(labels)-1], snap.Tree),
	}, nil
}

// Breadcrumb joins the labels of parentKeys and label.
func (s *Service) Breadcrumb(_ context.Context, parentKeys []string, label string) string {
	snap := s.current.Load()
	if snap == nil {
		return menu.Breadcrumb(parentKeys, label, nil)
	}
	return menu.Breadcrumb(parentKeys, label, snap.Tree)
}

// Replace validates tree, writes it to the source document and reloads.
func (s *Service) Replace(ctx context.Context, tree menu.Tree) (*Snapshot, error) {
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	data, err := parser.Encode(tree, s.format)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(s.path, data); err != nil {
		return nil, fmt.Errorf("catalog: write source: %w", err)
	}
	snap, _, err := s.Reload(ctx)
	return snap, err
}
