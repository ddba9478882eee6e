// Package store holds the live workspace. Reads hand out copies; every
// mutation builds a new collection and swaps it in under the lock, then
// hands the result to the persister.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/top3"
)

var (
	ErrNotFound         = errors.New("store: block not found")
	ErrTagNotFound      = errors.New("store: tag not found")
	ErrViewNotFound     = errors.New("store: custom view not found")
	ErrManagedProperty  = errors.New("store: property is managed by TOP-3")
	ErrEmptyBlock       = errors.New("store: block needs a name or content")
	ErrInvalidCustomDef = errors.New("store: invalid custom view")
)

// Persister receives the full workspace after each committed mutation.
type Persister interface {
	SaveWorkspace(ctx context.Context, w model.Workspace) error
}

type Options struct {
	Now       func() time.Time
	Location  *time.Location
	NewID     func() string
	Persister Persister
	Logger    *slog.Logger
}

type Store struct {
	mu     sync.RWMutex
	saveMu sync.Mutex
	ws     model.Workspace
	now    func() time.Time
	loc    *time.Location
	ids    func() string
	out    Persister
	log    *slog.Logger
}

func New(ws model.Workspace, opts Options) *Store {
	s := &Store{
		ws:  ws.Clone(),
		now: opts.Now,
		loc: opts.Location,
		ids: opts.NewID,
		out: opts.Persister,
		log: opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.ids == nil {
		s.ids = func() string { return uuid.NewString() }
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Today is the current civil day in the configured zone.
func (s *Store) Today() model.Day {
	return model.DayOf(s.now(), s.loc)
}

func (s *Store) Location() *time.Location { return s.loc }

func (s *Store) Now() time.Time { return s.now() }

func (s *Store) Workspace() model.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Clone()
}

// Blocks returns every block, soft-deleted ones included.
func (s *Store) Blocks() []model.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Block, len(s.ws.Blocks))
	for i, b := range s.ws.Blocks {
		out[i] = b.Clone()
	}
	return out
}

func (s *Store) Block(id string) (model.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.ws.Blocks, id); i >= 0 {
		return s.ws.Blocks[i].Clone(), true
	}
	return model.Block{}, false
}

// Resolve finds a block by exact id or by a unique id prefix.
func (s *Store) Resolve(ref string) (model.Block, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Block{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.ws.Blocks, ref); i >= 0 {
		return s.ws.Blocks[i].Clone(), nil
	}
	var match *model.Block
	for i := range s.ws.Blocks {
		b := &s.ws.Blocks[i]
		if strings.HasPrefix(b.ID, ref) {
			if match != nil {
				return model.Block{}, fmt.Errorf("%w: %q is ambiguous", ErrNotFound, ref)
			}
			match = b
		}
	}
	if match == nil {
		return model.Block{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return match.Clone(), nil
}

func (s *Store) Tags() model.TagSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(model.TagSet(nil), s.ws.Tags...)
}

func (s *Store) CustomViews() []model.CustomView {
	return s.Workspace().CustomViews
}

func (s *Store) History() []model.Top3History {
	return s.Workspace().History
}

// Replace swaps in a whole workspace, e.g. after an import.
func (s *Store) Replace(ctx context.Context, ws model.Workspace) error {
	for _, b := range ws.Blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if err := top3.CheckInvariant(ws.Blocks); err != nil {
		return err
	}
	s.commit(ctx, func(cur model.Workspace) (model.Workspace, bool) {
		return ws.Clone(), true
	})
	return nil
}

// commit applies fn to a copy of the workspace and, when fn reports a change,
// swaps the copy in and persists it.
func (s *Store) commit(ctx context.Context, fn func(model.Workspace) (model.Workspace, bool)) bool {
	s.mu.Lock()
	next, changed := fn(s.ws.Clone())
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.ws = next
	s.mu.Unlock()

	s.persist(ctx)
	return true
}

// persist always writes the newest state, so overlapping commits cannot
// leave an older snapshot on disk.
func (s *Store) persist(ctx context.Context) {
	if s.out == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	snapshot := s.Workspace()
	if err := s.out.SaveWorkspace(ctx, snapshot); err != nil {
		s.log.Error("persist workspace", slog.Any("error", err), slog.Int("blocks", len(snapshot.Blocks)))
	}
}

func indexOf(blocks []model.Block, id string) int {
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
