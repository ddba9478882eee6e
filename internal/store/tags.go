package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/tutord/internal/model"
)

// UpsertTag inserts t or replaces the tag with the same id. An empty id is
// minted.
func (s *Store) UpsertTag(ctx context.Context, t model.Tag) (model.Tag, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return model.Tag{}, errors.New("store: tag name is required")
	}
	if t.ID == "" {
		t.ID = s.ids()
	}
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		for i := range ws.Tags {
			if ws.Tags[i].ID == t.ID {
				if ws.Tags[i] == t {
					return ws, false
				}
				ws.Tags[i] = t
				return ws, true
			}
		}
		ws.Tags = append(ws.Tags, t)
		return ws, true
	})
	return t, nil
}

// DeleteTag drops the tag and removes its id from every block's tag list.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	now := s.now().UTC()
	var found bool
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		idx := slices.IndexFunc(ws.Tags, func(t model.Tag) bool { return t.ID == id })
		if idx < 0 {
			return ws, false
		}
		found = true
		ws.Tags = slices.Delete(ws.Tags, idx, idx+1)
		for i, b := range ws.Blocks {
			p, ok := b.PropertyOf(model.PropertyTag)
			if !ok {
				continue
			}
			v, _ := p.Value.(model.TagValue)
			if !slices.Contains(v.TagIDs, id) {
				continue
			}
			kept := slices.DeleteFunc(slices.Clone(v.TagIDs), func(t string) bool { return t == id })
			if next, err := b.WithValue(p.ID, model.TagValue{TagIDs: kept}); err == nil {
				ws.Blocks[i] = next.Touch(now)
			}
		}
		return ws, true
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	return nil
}

func (s *Store) UpsertCustomView(ctx context.Context, v model.CustomView) (model.CustomView, error) {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" || len(v.PropertyIDs) == 0 {
		return model.CustomView{}, fmt.Errorf("%w: name and property types are required", ErrInvalidCustomDef)
	}
	for _, t := range v.PropertyIDs {
		if !t.IsValid() {
			return model.CustomView{}, fmt.Errorf("%w: %q", model.ErrUnknownPropertyType, t)
		}
	}
	if v.ID == "" {
		v.ID = s.ids()
	}
	v.PropertyIDs = slices.Clone(v.PropertyIDs)
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		for i := range ws.CustomViews {
			if ws.CustomViews[i].ID == v.ID {
				ws.CustomViews[i] = v
				return ws, true
			}
		}
		ws.CustomViews = append(ws.CustomViews, v)
		return ws, true
	})
	return v, nil
}

func (s *Store) DeleteCustomView(ctx context.Context, id string) error {
	var found bool
	s.commit(ctx, func(ws model.Workspace) (model.Workspace, bool) {
		idx := slices.IndexFunc(ws.CustomViews, func(v model.CustomView) bool { return v.ID == id })
		if idx < 0 {
			return ws, false
		}
		found = true
		ws.CustomViews = slices.Delete(ws.CustomViews, idx, idx+1)
		return ws, true
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return nil
}
