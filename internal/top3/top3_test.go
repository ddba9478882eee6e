package top3

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tutord/internal/model"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func seqIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("prop-%d", n)
	}
}

func blocks(n int) []model.Block {
	out := make([]model.Block, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.NewBlock(fmt.Sprintf("b%d", i), fmt.Sprintf("Block %d", i), fmt.Sprintf("content %d", i), now.Add(-time.Hour)))
	}
	return out
}

func slotOf(t *testing.T, b model.Block) int {
	t.Helper()
	u, ok := model.Lookup[model.UrgentValue](b)
	require.True(t, ok, "block %s is not urgent", b.ID)
	return u.SlotIndex
}

func intPtr(v int) *int { return &v }

func TestAddCapacity(t *testing.T) {
	ids := seqIDs()
	bs := blocks(4)
	var ok bool
	for i := 0; i < 3; i++ {
		bs, ok = Add(bs, bs[i].ID, nil, "2024-03-10", now, ids)
		require.True(t, ok)
	}
	before := bs
	bs, ok = Add(bs, "b3", nil, "2024-03-10", now, ids)
	assert.False(t, ok)
	assert.Equal(t, before, bs, "fourth add must not mutate state")

	slots := map[int]bool{}
	count := 0
	for _, b := range bs {
		if b.Has(model.PropertyUrgent) {
			count++
			slots[slotOf(t, b)] = true
		}
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, slots)
	assert.Equal(t, NoSlot, NextAvailableSlot(bs))
	require.NoError(t, CheckInvariant(bs))
}

func TestAddSideEffects(t *testing.T) {
	bs := blocks(1)
	out, ok := Add(bs, "b0", nil, "2024-03-10", now, seqIDs())
	require.True(t, ok)

	b := out[0]
	cb, hasCheckbox := model.Lookup[model.CheckboxValue](b)
	assert.True(t, hasCheckbox, "TOP-3 items must be completable")
	assert.False(t, cb.Checked)
	u, _ := model.Lookup[model.UrgentValue](b)
	assert.Equal(t, model.Day("2024-03-10"), u.AddedAt)
	assert.Equal(t, 0, u.SlotIndex)
	assert.Equal(t, now, b.UpdatedAt)
	assert.False(t, bs[0].Has(model.PropertyUrgent), "input collection must not be mutated")
}

func TestAddKeepsExistingCheckbox(t *testing.T) {
	bs := blocks(1)
	bs[0].Properties = append(bs[0].Properties, model.Property{ID: "cb", Type: model.PropertyCheckbox, Value: model.CheckboxValue{Checked: true}})
	out, ok := Add(bs, "b0", nil, "2024-03-10", now, seqIDs())
	require.True(t, ok)
	assert.Len(t, out[0].Properties, 2)
	assert.True(t, out[0].Checked())
}

func TestAddNoOps(t *testing.T) {
	ids := seqIDs()
	bs := blocks(3)
	bs, ok := Add(bs, "b0", intPtr(1), "2024-03-10", now, ids)
	require.True(t, ok)
	assert.Equal(t, 1, slotOf(t, bs[0]))

	_, ok = Add(bs, "b0", nil, "2024-03-10", now, ids)
	assert.False(t, ok, "double add is a no-op")
	_, ok = Add(bs, "b1", intPtr(1), "2024-03-10", now, ids)
	assert.False(t, ok, "occupied slot is a no-op")
	_, ok = Add(bs, "b1", intPtr(3), "2024-03-10", now, ids)
	assert.False(t, ok, "out of range slot is a no-op")
	_, ok = Add(bs, "missing", nil, "2024-03-10", now, ids)
	assert.False(t, ok)

	bs[2].IsDeleted = true
	_, ok = Add(bs, "b2", nil, "2024-03-10", now, ids)
	assert.False(t, ok, "deleted blocks cannot enter TOP-3")

	assert.Equal(t, 0, NextAvailableSlot(bs))
	bs, ok = Add(bs, "b1", nil, "2024-03-10", now, ids)
	require.True(t, ok)
	assert.Equal(t, 0, slotOf(t, bs[1]))
	assert.Equal(t, 2, NextAvailableSlot(bs))
}

func TestRemoveIsIdempotent(t *testing.T) {
	bs, _ := Add(blocks(2), "b0", nil, "2024-03-10", now, seqIDs())
	out, ok := Remove(bs, "b0", now)
	require.True(t, ok)
	assert.False(t, out[0].Has(model.PropertyUrgent))
	assert.True(t, out[0].Has(model.PropertyCheckbox), "checkbox stays after leaving TOP-3")

	again, ok := Remove(out, "b0", now)
	assert.False(t, ok)
	assert.Equal(t, out, again)
	_, ok = Remove(out, "nope", now)
	assert.False(t, ok)
}

func TestItemsOrderedBySlot(t *testing.T) {
	ids := seqIDs()
	bs := blocks(3)
	bs, _ = Add(bs, "b0", intPtr(2), "2024-03-10", now, ids)
	bs, _ = Add(bs, "b1", intPtr(0), "2024-03-10", now, ids)
	items := Items(bs)
	require.Len(t, items, 2)
	assert.Equal(t, "b1", items[0].Block.ID)
	assert.Equal(t, "b0", items[1].Block.ID)
}

func TestCheckInvariant(t *testing.T) {
	bs := blocks(2)
	for i := range bs {
		bs[i].Properties = append(bs[i].Properties, model.Property{ID: "u", Type: model.PropertyUrgent, Value: model.UrgentValue{AddedAt: "2024-03-10", SlotIndex: 1}})
	}
	assert.ErrorIs(t, CheckInvariant(bs), ErrInvariant)
}

func TestArchiveMovesExpiredMarkers(t *testing.T) {
	ids := seqIDs()
	bs := blocks(3)
	bs, _ = Add(bs, "b0", nil, "2024-03-09", now, ids)
	bs, _ = Add(bs, "b1", nil, "2024-03-09", now, ids)
	bs, _ = Add(bs, "b2", nil, "2024-03-10", now, ids)
	// Complete b1 before the day ends.
	cb, _ := bs[1].PropertyOf(model.PropertyCheckbox)
	b1, err := bs[1].WithValue(cb.ID, model.CheckboxValue{Checked: true})
	require.NoError(t, err)
	bs[1] = b1

	res := Archive(bs, nil, "2024-03-10", now)
	require.True(t, res.Changed())
	assert.Equal(t, model.Day("2024-03-09"), res.Date)
	assert.False(t, res.Blocks[0].Has(model.PropertyUrgent))
	assert.False(t, res.Blocks[1].Has(model.PropertyUrgent))
	assert.True(t, res.Blocks[2].Has(model.PropertyUrgent), "today's marker stays")

	require.Len(t, res.History, 1)
	assert.Equal(t, model.Top3History{
		Date: "2024-03-09",
		Blocks: []model.HistoryBlock{
			{ID: "b0", Content: "content 0", Completed: false},
			{ID: "b1", Content: "content 1", Completed: true},
		},
	}, res.History[0])
	assert.True(t, bs[0].Has(model.PropertyUrgent), "input must not be mutated")
}

func TestArchiveIsIdempotent(t *testing.T) {
	bs, _ := Add(blocks(1), "b0", nil, "2024-03-08", now, seqIDs())
	first := Archive(bs, nil, "2024-03-10", now)
	second := Archive(first.Blocks, first.History, "2024-03-10", now)
	assert.False(t, second.Changed())
	assert.Equal(t, first.Blocks, second.Blocks)
	assert.Equal(t, first.History, second.History)
}

func TestArchiveMergesIntoExistingBucket(t *testing.T) {
	existing := []model.Top3History{
		{Date: "2024-03-09", Blocks: []model.HistoryBlock{{ID: "old", Content: "kept", Completed: true}}},
		{Date: "2024-03-01", Blocks: []model.HistoryBlock{{ID: "older", Content: "x"}}},
	}
	bs, _ := Add(blocks(1), "b0", nil, "2024-03-09", now, seqIDs())
	res := Archive(bs, existing, "2024-03-10", now)

	require.Len(t, res.History, 2)
	assert.Equal(t, model.Day("2024-03-09"), res.History[0].Date)
	assert.Equal(t, []model.HistoryBlock{
		{ID: "old", Content: "kept", Completed: true},
		{ID: "b0", Content: "content 0"},
	}, res.History[0].Blocks)
	assert.Len(t, existing[0].Blocks, 1, "existing history must not be mutated")
}

func TestMergeHistoryKeepsFirstSnapshot(t *testing.T) {
	h := MergeHistory(nil, model.Top3History{Date: "2024-03-09", Blocks: []model.HistoryBlock{{ID: "a", Content: "v1"}}})
	h = MergeHistory(h, model.Top3History{Date: "2024-03-09", Blocks: []model.HistoryBlock{{ID: "a", Content: "v2"}}})
	h = MergeHistory(h, model.Top3History{Date: "2024-03-11", Blocks: []model.HistoryBlock{{ID: "b"}}})
	require.Len(t, h, 2)
	assert.Equal(t, model.Day("2024-03-11"), h[0].Date)
	assert.Equal(t, "v1", h[1].Blocks[0].Content)

	got, ok := HistoryFor(h, "2024-03-09")
	assert.True(t, ok)
	assert.Len(t, got.Blocks, 1)
	_, ok = HistoryFor(h, "2024-01-01")
	assert.False(t, ok)
}

func TestSnapshotFallsBackToTitle(t *testing.T) {
	b := model.NewBlock("x", "Call parents", "", now)
	assert.Equal(t, "Call parents", Snapshot(b).Content)
}
