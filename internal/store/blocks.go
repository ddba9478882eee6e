package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/top3"
)

func (s *Store) CreateBlock(ctx context.Context, name, content string) (model.Block, error) {
	name = strings.TrimSpace(name)
	if name == "" && strings.TrimSpace(content) == "" {
		return model.Block{}, ErrEmptyBlock
	}
	b := model.NewBlock(s.ids(), name, content, s.now().UTC())
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		ws.Blocks = append(ws.Blocks, b)
		return ws, true
	})
	s.log.Info("block created", slog.String("block_id", b.ID))
	return b.Clone(), nil
}

func (s *Store) UpdateBlock(ctx context.Context, id, name, content string) (model.Block, error) {
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		name = strings.TrimSpace(name)
		if name == "" && strings.TrimSpace(content) == "" {
			return b, false, ErrEmptyBlock
		}
		if b.Name == name && b.Content == content {
			return b, false, nil
		}
		b.Name = name
		b.Content = content
		return b, true, nil
	})
}

func (s *Store) SetPinned(ctx context.Context, id string, pinned bool) (model.Block, error) {
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		if b.IsPinned == pinned {
			return b, false, nil
		}
		b.IsPinned = pinned
		return b, true, nil
	})
}

// SoftDelete flags the block and frees its TOP-3 slot, so the block is left
// out of that day's archived history. The row stays in the collection so
// Restore can bring it back; Restore does not reclaim the slot.
func (s *Store) SoftDelete(ctx context.Context, id string) (model.Block, error) {
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		if b.IsDeleted {
			return b, false, nil
		}
		b, _ = b.WithoutType(model.PropertyUrgent)
		b.IsDeleted = true
		return b, true, nil
	})
}

func (s *Store) Restore(ctx context.Context, id string) (model.Block, error) {
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		if !b.IsDeleted {
			return b, false, nil
		}
		b.IsDeleted = false
		return b, true, nil
	})
}

// AddProperty attaches a property of type t carrying its default value. A
// duplicate singular type is a no-op and returns the zero Property.
func (s *Store) AddProperty(ctx context.Context, id string, t model.PropertyType, name string) (model.Property, error) {
	if !t.IsValid() {
		return model.Property{}, fmt.Errorf("%w: %q", model.ErrUnknownPropertyType, t)
	}
	if t == model.PropertyUrgent {
		return model.Property{}, ErrManagedProperty
	}
	value, _ := model.DefaultValue(t, s.Today())
	if strings.TrimSpace(name) == "" {
		name = t.DefaultName()
	}
	p := model.Property{ID: s.ids(), Type: t, Name: name, Value: value}
	var added bool
	_, err := s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		b, added = b.WithProperty(p)
		return b, added, nil
	})
	if err != nil || !added {
		return model.Property{}, err
	}
	return p, nil
}

// UpdateProperty replaces the whole value of propID.
func (s *Store) UpdateProperty(ctx context.Context, id, propID string, v model.Value) (model.Block, error) {
	if v != nil && v.Type() == model.PropertyUrgent {
		return model.Block{}, ErrManagedProperty
	}
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		next, err := b.WithValue(propID, v)
		if err != nil {
			return b, false, err
		}
		return next, true, nil
	})
}

func (s *Store) RemoveProperty(ctx context.Context, id, propID string) (model.Block, error) {
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		next, ok := b.WithoutProperty(propID)
		return next, ok, nil
	})
}

// ToggleChecked flips the block's checkbox, adding a checked one when the
// block has none.
func (s *Store) ToggleChecked(ctx context.Context, id string) (model.Block, error) {
	propID := s.ids()
	return s.mutate(ctx, id, func(b model.Block) (model.Block, bool, error) {
		p, ok := b.PropertyOf(model.PropertyCheckbox)
		if !ok {
			next, _ := b.WithProperty(model.Property{
				ID:    propID,
				Type:  model.PropertyCheckbox,
				Name:  model.PropertyCheckbox.DefaultName(),
				Value: model.CheckboxValue{Checked: true},
			})
			return next, true, nil
		}
		cur, _ := p.Value.(model.CheckboxValue)
		next, err := b.WithValue(p.ID, model.CheckboxValue{Checked: !cur.Checked})
		return next, err == nil, err
	})
}

// AddToTop3 reports false for every policy no-op.
func (s *Store) AddToTop3(ctx context.Context, id string, slot *int) (bool, error) {
	today := s.Today()
	now := s.now().UTC()
	var missing bool
	changed := s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		if indexOf(ws.Blocks, id) < 0 {
			missing = true
			return ws, false
		}
		next, ok := top3.Add(ws.Blocks, id, slot, today, now, s.ids)
		ws.Blocks = next
		return ws, ok
	})
	if missing {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if changed {
		s.log.Info("top3 add", slog.String("block_id", id), slog.String("date", today.String()))
	}
	return changed, nil
}

func (s *Store) RemoveFromTop3(ctx context.Context, id string) (bool, error) {
	now := s.now().UTC()
	var missing bool
	changed := s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		if indexOf(ws.Blocks, id) < 0 {
			missing = true
			return ws, false
		}
		next, ok := top3.Remove(ws.Blocks, id, now)
		ws.Blocks = next
		return ws, ok
	})
	if missing {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return changed, nil
}

func (s *Store) Top3() []top3.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := top3.Items(s.ws.Blocks)
	for i := range items {
		items[i].Block = items[i].Block.Clone()
	}
	return items
}

// ArchiveTop3 runs the daily archival for the current local day.
func (s *Store) ArchiveTop3(ctx context.Context) top3.Result {
	today := s.Today()
	now := s.now().UTC()
	var res top3.Result
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		res = top3.Archive(ws.Blocks, ws.History, today, now)
		ws.Blocks = res.Blocks
		ws.History = res.History
		return ws, res.Changed()
	})
	if res.Changed() {
		s.log.Info("top3 archived", slog.String("date", res.Date.String()), slog.Int("blocks", len(res.Archived)))
	}
	return res
}

// mutate applies fn to block id and commits the touched result when fn
// reports a change.
func (s *Store) mutate(ctx context.Context, id string, fn func(model.Block) (model.Block, bool, error)) (model.Block, error) {
	var (
		out     model.Block
		fnErr   error
		missing bool
	)
	now := s.now().UTC()
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		idx := indexOf(ws.Blocks, id)
		if idx < 0 {
			missing = true
			return ws, false
		}
		next, changed, err := fn(ws.Blocks[idx])
		if err != nil {
			fnErr = err
			out = ws.Blocks[idx]
			return ws, false
		}
		if !changed {
			out = ws.Blocks[idx]
			return ws, false
		}
		next = next.Touch(now)
		ws.Blocks[idx] = next
		out = next
		return ws, true
	})
	if missing {
		return model.Block{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if fnErr != nil {
		return out.Clone(), fnErr
	}
	return out.Clone(), nil
}
