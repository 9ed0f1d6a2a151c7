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

// Package scheduler declares the only contract the core assumes of its
// host: a monotonic notion of time, a way for an overlay to notify the
// node that owns a subscribed input, and a tick-boundary hook so the core
// can clear its one-tick delta buffers (spec.md §5, §6).
//
// The core never imports a concrete scheduler implementation; the graph
// wiring/compiler and evaluation loop are out of scope (spec.md §1).
package scheduler

import "sync"

// Time is the engine's monotonic evaluation instant. Zero is a valid
// instant; MinTime is the sentinel meaning "never modified".
type Time = int64

// MinTime is the sentinel overlays use for "never modified" (spec.md §4.E).
const MinTime Time = -1 << 63

// Notifiable is anything that can be told "something changed at t".
// Overlay observer lists, signal subscriptions, and TSInput all implement
// it (spec.md §4.G).
type Notifiable interface {
	Notify(t Time)
}

// NotifyFunc adapts a plain function to Notifiable.
type NotifyFunc func(t Time)

// Notify implements Notifiable.
func (f NotifyFunc) Notify(t Time) { f(t) }

var (
	resetMu  sync.Mutex
	resetFns []func()
)

// RegisterDeltaResetCallback registers fn to be called once at every tick
// boundary, so the scheduler - and only the scheduler - decides when
// "this tick" ends (spec.md §6). TSValue registers the dead-slot
// reclamation of its TSS/TSD key storage here. Set/map deltas are not
// cached, and overlay delta buffers are not registered: they reset on the
// first record of a new tick.
func RegisterDeltaResetCallback(fn func()) {
	resetMu.Lock()
	defer resetMu.Unlock()
	resetFns = append(resetFns, fn)
}

// FireTickBoundary invokes every registered reset callback. The core
// itself never calls this; it is the scheduler's responsibility, exposed
// here only so tests can simulate a tick boundary without a real
// scheduler.
func FireTickBoundary() {
	resetMu.Lock()
	fns := make([]func(), len(resetFns))
	copy(fns, resetFns)
	resetMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
