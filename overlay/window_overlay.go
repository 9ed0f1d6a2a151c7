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
	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/scheduler"
)

// WindowEntry is one timestamped scalar held by a WindowOverlay.
type WindowEntry struct {
	Value any
	Time  scheduler.Time
}

// WindowOverlay is the overlay for TSW (spec.md §3, §4.E): a ring of
// timestamped entries, either size-bounded (SizeBound > 0) or
// duration-bounded (DurationBound > 0); exactly one is nonzero. The
// window itself owns the entries - there is no separate container
// storage for TSW, matching spec.md §9's reading that the window's
// "ring of timestamped entries" lives at the overlay level.
type WindowOverlay struct {
	base

	entries []WindowEntry
	start   int // first logically-valid index; > 0 under lazy compaction

	SizeBound     int
	DurationBound scheduler.Time
	Min           int
	Compaction    config.WindowCompaction
}

// NewWindowOverlay constructs an empty window overlay. Exactly one of
// sizeBound/durationBound should be nonzero.
func NewWindowOverlay(sizeBound int, durationBound scheduler.Time, min int, compaction config.WindowCompaction) *WindowOverlay {
	return &WindowOverlay{
		base:          newBase(),
		SizeBound:     sizeBound,
		DurationBound: durationBound,
		Min:           min,
		Compaction:    compaction,
	}
}

func (o *WindowOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *WindowOverlay) MarkInvalid()                  { o.markInvalid() }

// Push appends (value, t) and evicts per the configured bound
// (spec.md §4.E: window_push).
func (o *WindowOverlay) Push(value any, t scheduler.Time) {
	o.entries = append(o.entries, WindowEntry{Value: value, Time: t})
	o.evictExpired(t)
	o.MarkModified(t)
}

// evictExpired drops entries past the configured bound (spec.md §4.E:
// window_evict_expired). A duration-bounded window drops entries older
// than (newest - range); a size-bounded window evicts the oldest when at
// capacity.
func (o *WindowOverlay) evictExpired(now scheduler.Time) {
	if o.SizeBound > 0 {
		for len(o.entries)-o.start > o.SizeBound {
			o.start++
		}
	} else if o.DurationBound > 0 {
		cutoff := now - o.DurationBound
		for o.start < len(o.entries) && o.entries[o.start].Time < cutoff {
			o.start++
		}
	}
	if o.Compaction == config.WindowCompactionEager {
		o.Compact()
	}
}

// Compact repacks the backing slice, dropping the logically-evicted
// prefix (spec.md §4.E: window_compact). Under config.WindowCompactionLazy
// this only runs when called explicitly; under
// config.WindowCompactionEager, evictExpired calls it automatically.
func (o *WindowOverlay) Compact() {
	if o.start == 0 {
		return
	}
	compacted := make([]WindowEntry, len(o.entries)-o.start)
	copy(compacted, o.entries[o.start:])
	o.entries = compacted
	o.start = 0
}

// Clear empties the window (spec.md §4.E: window_clear).
func (o *WindowOverlay) Clear() {
	o.entries = o.entries[:0]
	o.start = 0
}

// Len returns the number of logically-valid entries.
func (o *WindowOverlay) Len() int { return len(o.entries) - o.start }

// At returns the i'th oldest-to-newest entry.
func (o *WindowOverlay) At(i int) (WindowEntry, bool) {
	idx := o.start + i
	if i < 0 || idx >= len(o.entries) {
		return WindowEntry{}, false
	}
	return o.entries[idx], true
}

// Oldest returns the earliest entry still in the window.
func (o *WindowOverlay) Oldest() (WindowEntry, bool) { return o.At(0) }

// Newest returns the most recent entry pushed.
func (o *WindowOverlay) Newest() (WindowEntry, bool) { return o.At(o.Len() - 1) }

// HasMinEntries reports whether the window holds at least Min entries,
// the threshold below which a window TSValue reports has_value() == false
// regardless of last_modified_time (spec.md §3 TSW[..., min]).
func (o *WindowOverlay) HasMinEntries() bool { return o.Len() >= o.Min }
