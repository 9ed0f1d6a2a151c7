// Copyright 2025 The TSGraph Authors
// This file is part of TSGraph.
//
// TSGraph is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TSGraph is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TSGraph. If not, see <http://www.gnu.org/licenses/>.

package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/scheduler"
)

type countingNotifiable struct{ notified []scheduler.Time }

func (c *countingNotifiable) Notify(t scheduler.Time) { c.notified = append(c.notified, t) }

func TestScalarOverlayMarkModifiedAdvancesAndNotifies(t *testing.T) {
	o := NewScalarOverlay()
	require.False(t, o.HasValue())

	sub := &countingNotifiable{}
	o.Observers().Add(sub)

	o.MarkModified(5)
	require.True(t, o.HasValue())
	require.True(t, o.ModifiedAt(5))
	require.Equal(t, []scheduler.Time{5}, sub.notified)

	// A timestamp that doesn't advance still notifies (unconditional notify).
	o.MarkModified(3)
	require.Equal(t, scheduler.Time(5), o.LastModifiedTime(), "local time only moves forward")
	require.Equal(t, []scheduler.Time{5, 3}, sub.notified, "notify fires even when the timestamp does not advance")
}

func TestScalarOverlayMarkInvalidIsLocalOnly(t *testing.T) {
	parent := NewScalarOverlay()
	child := NewScalarOverlay()
	child.SetParent(parent)

	child.MarkModified(4)
	require.Equal(t, scheduler.Time(4), parent.LastModifiedTime(), "mark_modified propagates upward")

	child.MarkInvalid()
	require.False(t, child.HasValue())
	require.True(t, parent.HasValue(), "mark_invalid never touches the parent")
}

func TestBundleOverlayPropagatesFieldModificationToParent(t *testing.T) {
	bid := NewScalarOverlay()
	ask := NewScalarOverlay()
	b := NewBundleOverlay(map[string]Overlay{"bid": bid, "ask": ask}, []string{"bid", "ask"})

	bid.MarkModified(7)
	require.True(t, b.ModifiedAt(7), "a child's mark_modified propagates to the bundle parent")
	require.False(t, ask.HasValue(), "sibling fields are independent")
	require.Same(t, Overlay(b), b.Field("bid").Parent())
}

func TestListOverlaySharesOneFlagAcrossElements(t *testing.T) {
	l := NewListOverlay()
	l.MarkModified(2)
	require.True(t, l.ModifiedAt(2), "list overlay has a single shared timestamp, no per-index tracking")
}

func TestSetOverlayRecordsAddedAndRemoved(t *testing.T) {
	o := NewSetOverlay()
	o.RecordAdded(1, 10)
	o.RecordAdded(2, 10)
	require.ElementsMatch(t, []uint32{1, 2}, o.AddedSlots())

	o.RecordRemoved(3, 10, "stale")
	require.ElementsMatch(t, []uint32{3}, o.RemovedSlots())
	v, ok := o.RemovedValue(3)
	require.True(t, ok)
	require.Equal(t, "stale", v)
}

func TestSetOverlayZeroNetCancellation(t *testing.T) {
	o := NewSetOverlay()
	o.RecordAdded(5, 1)
	require.True(t, o.ModifiedAt(1))

	fresh := NewSetOverlay()
	fresh.RecordAdded(5, 2)
	fresh.RecordRemoved(5, 2, "value")

	require.False(t, fresh.WasAdded(5), "an insert-then-erase of the same slot this tick cancels out of added")
	require.False(t, fresh.WasRemoved(5), "...and out of removed")
	require.False(t, fresh.HasValue(), "the cancelled pair never advances this overlay's own timestamp")
}

func TestSetOverlayDeltaResetsOnNewTick(t *testing.T) {
	o := NewSetOverlay()
	o.RecordAdded(1, 10)
	require.ElementsMatch(t, []uint32{1}, o.AddedSlots())

	o.RecordAdded(2, 11)
	require.ElementsMatch(t, []uint32{2}, o.AddedSlots(), "a new tick clears the previous tick's delta")
}

func TestMapOverlayRecordsKeyLifecycleAndEmptyTransition(t *testing.T) {
	o := NewMapOverlay()
	require.Equal(t, 0, o.Len())

	child := NewScalarOverlay()
	o.RecordKeyAdded(0, 1, "AAPL", child)
	require.Equal(t, 1, o.Len())
	require.True(t, o.WasKeyAdded(0))
	require.True(t, o.IsEmpty.ModifiedAt(1), "0 -> 1 live keys fires an empty transition")

	o.RecordKeyUpdated(0, 2, "AAPL")
	require.True(t, o.WasKeyUpdated(0))

	o.RecordKeyRemoved(0, 3, "AAPL")
	require.Equal(t, 0, o.Len())
	require.True(t, o.WasKeyRemoved(0))
	require.True(t, o.IsEmpty.ModifiedAt(3), "1 -> 0 live keys fires an empty transition")

	key, valueOverlay, ok := o.RemovedKeyValue(0)
	require.True(t, ok)
	require.Equal(t, "AAPL", key)
	require.Same(t, Overlay(child), valueOverlay)
}

func TestMapOverlayInsertThenEraseSameTickCancels(t *testing.T) {
	o := NewMapOverlay()
	child := NewScalarOverlay()
	o.RecordKeyAdded(0, 1, "AAPL", child)
	o.RecordKeyRemoved(0, 1, "AAPL")

	require.False(t, o.WasKeyAdded(0))
	require.False(t, o.WasKeyRemoved(0))
	require.Equal(t, 0, o.Len())
}

func TestMapOverlayChildParentedForPropagation(t *testing.T) {
	o := NewMapOverlay()
	child := NewScalarOverlay()
	o.RecordKeyAdded(0, 1, "AAPL", child)

	child.MarkModified(5)
	require.True(t, o.ModifiedAt(5), "a live child's modification propagates to the owning map overlay")
}

func TestWindowOverlaySizeBoundEviction(t *testing.T) {
	w := NewWindowOverlay(2, 0, 0, config.WindowCompactionLazy)
	w.Push(int64(1), 1)
	w.Push(int64(2), 2)
	w.Push(int64(3), 3)

	require.Equal(t, 2, w.Len())
	oldest, ok := w.Oldest()
	require.True(t, ok)
	require.Equal(t, int64(2), oldest.Value)
	newest, ok := w.Newest()
	require.True(t, ok)
	require.Equal(t, int64(3), newest.Value)
}

func TestWindowOverlayDurationBoundEviction(t *testing.T) {
	w := NewWindowOverlay(0, 5, 0, config.WindowCompactionLazy)
	w.Push(int64(1), 1)
	w.Push(int64(2), 4)
	w.Push(int64(3), 10)

	require.Equal(t, 1, w.Len(), "only entries within 5 of the newest timestamp survive")
	oldest, ok := w.Oldest()
	require.True(t, ok)
	require.Equal(t, int64(3), oldest.Value)
}

func TestWindowOverlayHasMinEntries(t *testing.T) {
	w := NewWindowOverlay(5, 0, 2, config.WindowCompactionLazy)
	w.Push(int64(1), 1)
	require.False(t, w.HasMinEntries())
	w.Push(int64(2), 2)
	require.True(t, w.HasMinEntries())
}

func TestWindowOverlayCompactRepacksAfterLazyEviction(t *testing.T) {
	w := NewWindowOverlay(2, 0, 0, config.WindowCompactionLazy)
	w.Push(int64(1), 1)
	w.Push(int64(2), 2)
	w.Push(int64(3), 3)
	require.Equal(t, 3, len(w.entries), "lazy compaction leaves the evicted prefix in place until Compact")

	w.Compact()
	require.Equal(t, 2, len(w.entries))
	require.Equal(t, 2, w.Len())
}

func TestWindowOverlayClear(t *testing.T) {
	w := NewWindowOverlay(5, 0, 0, config.WindowCompactionLazy)
	w.Push(int64(1), 1)
	w.Clear()
	require.Equal(t, 0, w.Len())
	_, ok := w.Oldest()
	require.False(t, ok)
}
