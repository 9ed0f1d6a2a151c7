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

// Package observer implements the subscriber-list contract overlays and
// signal multi-binds use to notify downstream inputs (spec.md §4.G): a
// lazily-allocated, pointer-identity-deduplicated list that tolerates a
// subscriber removing itself (or another subscriber) from within Notify
// by snapshotting before iterating, grounded on the coalescing
// subscribe/update loop in other_examples' watchable-map.go.
package observer

import "github.com/tsgraph/core/scheduler"

// Notifiable is anything that can be told "something changed at t".
type Notifiable = scheduler.Notifiable

// List is a lazily-populated, deduplicated subscriber list. The zero
// value is ready to use - overlay nodes embed a List by value so a
// never-subscribed overlay costs nothing beyond a nil slice.
type List struct {
	subs          []Notifiable
	iterating     bool
	pendingRemove []Notifiable
}

// Add registers n, rejecting a nil n and a duplicate add per spec.md §4.G /
// §6's subscription_dedup option (always on).
func (l *List) Add(n Notifiable) bool {
	if n == nil {
		return false
	}
	for _, s := range l.subs {
		if s == n {
			return false
		}
	}
	l.subs = append(l.subs, n)
	return true
}

// Remove unregisters n. If called from within Notify, the removal is
// deferred until the current notification pass finishes (spec.md §5:
// "the observer list must tolerate subscriber removal from within
// notify by deferring the structural change to the end of the
// iteration, or by snapshotting before iterating" - List does both:
// Notify snapshots before iterating, and Remove during that pass defers).
func (l *List) Remove(n Notifiable) bool {
	if l.iterating {
		l.pendingRemove = append(l.pendingRemove, n)
		return true
	}
	return l.removeNow(n)
}

func (l *List) removeNow(n Notifiable) bool {
	for i, s := range l.subs {
		if s == n {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Notify delivers t to every current subscriber exactly once, even if a
// subscriber's own Notify mutates this list (spec.md §4.G: "must not
// cause the same subscriber to be entered twice for the same
// modification"). Notification order is unspecified (spec.md §4.G).
func (l *List) Notify(t scheduler.Time) {
	if len(l.subs) == 0 {
		return
	}
	snapshot := make([]Notifiable, len(l.subs))
	copy(snapshot, l.subs)
	l.iterating = true
	for _, s := range snapshot {
		s.Notify(t)
	}
	l.iterating = false
	if len(l.pendingRemove) > 0 {
		for _, n := range l.pendingRemove {
			l.removeNow(n)
		}
		l.pendingRemove = l.pendingRemove[:0]
	}
}

// Len returns the current subscriber count.
func (l *List) Len() int { return len(l.subs) }

// SignalSubscription is the lightweight per-field observer used when a
// non-peered bundle output binds to a SIGNAL input (spec.md §4.G): each
// field gets one of these, writing a shared timestamp and scheduling the
// owning node when any field fires.
type SignalSubscription struct {
	shared *scheduler.Time
	owner  Notifiable
}

// NewSignalSubscription constructs a subscription writing into shared
// and forwarding to owner.
func NewSignalSubscription(shared *scheduler.Time, owner Notifiable) *SignalSubscription {
	return &SignalSubscription{shared: shared, owner: owner}
}

// Notify implements Notifiable.
func (s *SignalSubscription) Notify(t scheduler.Time) {
	*s.shared = t
	s.owner.Notify(t)
}
