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

// Package xerrors defines the error kinds raised at the boundaries of the
// typed-value core (see SPEC_FULL.md §7). Every kind is a sentinel that
// callers can match with errors.Is; call sites wrap it with fmt.Errorf to
// attach context, and the checked-API boundary functions additionally
// attach a stack trace with pkg/errors.
package xerrors

import "errors"

var (
	// ErrTypeMismatch is raised when a typed accessor asks for a type T
	// that the schema does not describe.
	ErrTypeMismatch = errors.New("xerrors: type mismatch")

	// ErrSchemaMismatch is raised when an input and output TS schema
	// cannot be bound by any access strategy.
	ErrSchemaMismatch = errors.New("xerrors: schema mismatch")

	// ErrSchemaAlreadyRegistered is raised when a name is re-bound to an
	// incompatible structure in the TypeMeta or TSMeta registry.
	ErrSchemaAlreadyRegistered = errors.New("xerrors: schema already registered under this name")

	// ErrUnboundInput is raised by TSInput.Value() on an input that is
	// not currently bound to an output (never bound, or unbound since),
	// and by a REF-observing input whose reference has no resolved target.
	ErrUnboundInput = errors.New("xerrors: input is not bound to an output")

	// ErrTargetResolutionFailed is raised when a REF target cannot be
	// resolved during on_reference_changed; the strategy transitions to
	// Unbound and the owning node observes has_value() == false.
	ErrTargetResolutionFailed = errors.New("xerrors: reference target could not be resolved")

	// ErrTypeNotHashable names the failure to hash a composite value
	// containing at least one non-hashable leaf. No function in this
	// module returns it: the container Hash ops report that case with
	// ok == false.
	ErrTypeNotHashable = errors.New("xerrors: type is not hashable")

	// ErrCapacityExceeded is raised when pushing onto a bounded queue at
	// capacity under the reject policy.
	ErrCapacityExceeded = errors.New("xerrors: capacity exceeded")

	// ErrIndexOutOfRange is raised by checked list/tuple/bundle index
	// accessors.
	ErrIndexOutOfRange = errors.New("xerrors: index out of range")

	// ErrMissingKey names an absent key in a map lookup. No function in
	// this module returns it: container.Map.Get reports an absent key
	// with a false result.
	ErrMissingKey = errors.New("xerrors: missing key")
)
