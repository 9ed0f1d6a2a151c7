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

package observer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/scheduler"
)

type recordingNotifiable struct {
	notified []scheduler.Time
	onNotify func(t scheduler.Time)
}

func (r *recordingNotifiable) Notify(t scheduler.Time) {
	r.notified = append(r.notified, t)
	if r.onNotify != nil {
		r.onNotify(t)
	}
}

func TestListAddRejectsDuplicateByIdentity(t *testing.T) {
	var l List
	sub := &recordingNotifiable{}
	require.True(t, l.Add(sub))
	require.False(t, l.Add(sub))
	require.Equal(t, 1, l.Len())
}

func TestListNotifyDeliversToEverySubscriberOnce(t *testing.T) {
	var l List
	a, b := &recordingNotifiable{}, &recordingNotifiable{}
	l.Add(a)
	l.Add(b)

	l.Notify(3)
	require.Equal(t, []scheduler.Time{3}, a.notified)
	require.Equal(t, []scheduler.Time{3}, b.notified)
}

func TestListRemoveDuringNotifyIsDeferred(t *testing.T) {
	var l List
	a := &recordingNotifiable{}
	b := &recordingNotifiable{}
	a.onNotify = func(scheduler.Time) { l.Remove(b) }
	l.Add(a)
	l.Add(b)

	l.Notify(1)
	require.Equal(t, []scheduler.Time{1}, a.notified)
	require.Equal(t, []scheduler.Time{1}, b.notified, "b is still notified this pass even though a removes it mid-iteration")
	require.Equal(t, 1, l.Len(), "the deferred removal applies once the notify pass finishes")

	l.Notify(2)
	require.Equal(t, []scheduler.Time{1}, b.notified, "b no longer receives later notifications")
}

func TestSignalSubscriptionWritesSharedTimeAndForwards(t *testing.T) {
	var shared scheduler.Time
	owner := &recordingNotifiable{}
	sub := NewSignalSubscription(&shared, owner)

	sub.Notify(7)
	require.Equal(t, scheduler.Time(7), shared)
	require.Equal(t, []scheduler.Time{7}, owner.notified)
}
