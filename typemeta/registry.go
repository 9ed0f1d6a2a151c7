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

package typemeta

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	logpkg "github.com/erigontech/erigon-lib/log/v3"
	"github.com/tsgraph/core/internal/xerrors"
)

var log = logpkg.New("pkg", "typemeta")

// structKey is the canonical string a schema's structural parameters
// serialize to. Because nested schemas are themselves interned pointers,
// formatting a nested *TypeMeta with %p (rather than recursing into its
// own structure) is sufficient to make two structurally identical
// descriptors produce the same key (spec.md §4.A: "structurally
// identical schemas must be the same pointer").
type structKey string

// SchemaDescriptor is the structural description passed to Register. A
// caller builds one from already-interned child schemas (Elem/Key/Fields)
// plus the concrete Ops for the new schema.
type SchemaDescriptor struct {
	Kind      Kind
	Elem      *TypeMeta
	Key       *TypeMeta
	Fields    []Field
	FixedSize int
	Flags     Flags
	Ops       Ops
}

func (d SchemaDescriptor) key(name string) structKey {
	switch d.Kind {
	case KindScalar:
		// Scalars have no substructure; the name *is* the structural key.
		return structKey("scalar:" + name)
	case KindTuple, KindBundle:
		s := fmt.Sprintf("%s:", d.Kind)
		for _, f := range d.Fields {
			s += fmt.Sprintf("%s=%p;", f.Name, f.Type)
		}
		return structKey(s)
	case KindList:
		return structKey(fmt.Sprintf("list:%p:%d", d.Elem, d.FixedSize))
	case KindSet:
		return structKey(fmt.Sprintf("set:%p", d.Elem))
	case KindMap:
		return structKey(fmt.Sprintf("map:%p:%p", d.Key, d.Elem))
	case KindCyclicBuffer:
		return structKey(fmt.Sprintf("cyclic:%p:%d", d.Elem, d.FixedSize))
	case KindQueue:
		return structKey(fmt.Sprintf("queue:%p:%d", d.Elem, d.FixedSize))
	case KindRef:
		return structKey(fmt.Sprintf("ref:%p", d.Elem))
	default:
		return structKey(fmt.Sprintf("%s:%p:%p:%d", d.Kind, d.Elem, d.Key, d.FixedSize))
	}
}

type regEntry struct {
	key    structKey
	name   string
	schema *TypeMeta
}

// Registry deduplicates TypeMeta by structural key and, separately, keeps
// every name-bound schema so re-registration under the same name can be
// validated (spec.md §4.A).
type Registry struct {
	mu       sync.Mutex
	byKey    *btree.BTreeG[regEntry]
	byName   map[string]*TypeMeta
}

func lessEntry(a, b regEntry) bool { return a.key < b.key }

// NewRegistry constructs an empty registry. The core also exposes a
// process-wide Default() registry; constructing your own is mainly useful
// for tests that want isolation between cases.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  btree.NewBTreeG(lessEntry),
		byName: make(map[string]*TypeMeta),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide TypeMeta registry. Per spec.md §9,
// teardown is unnecessary; the registry lives for the process.
func Default() *Registry { return defaultRegistry }

// Register interns desc, returning its TypeMeta pointer. If name is
// non-empty and already bound to a structurally different schema, it
// returns ErrSchemaAlreadyRegistered. If the same structure is
// re-registered (same name or anonymously with an identical key), the
// existing pointer is returned.
func (r *Registry) Register(name string, desc SchemaDescriptor) (*TypeMeta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := desc.key(name)
	if existing, ok := r.byKey.Get(regEntry{key: k}); ok {
		if name != "" && existing.name == "" {
			existing.name = name
			existing.schema.Name = name
			r.byName[name] = existing.schema
			r.byKey.Set(existing)
		}
		return existing.schema, nil
	}

	if name != "" {
		if prior, bound := r.byName[name]; bound {
			if prior.structKey != k {
				return nil, errors.WithStack(fmt.Errorf("%w: %q", xerrors.ErrSchemaAlreadyRegistered, name))
			}
			return prior, nil
		}
	}

	schema := &TypeMeta{
		Kind:      desc.Kind,
		Flags:     desc.Flags,
		Name:      name,
		Elem:      desc.Elem,
		Key:       desc.Key,
		Fields:    desc.Fields,
		FixedSize: desc.FixedSize,
		Ops:       desc.Ops,
		structKey: k,
	}
	r.byKey.Set(regEntry{key: k, name: name, schema: schema})
	if name != "" {
		r.byName[name] = schema
	}
	log.Debug("registered schema", "kind", desc.Kind.String(), "name", name)
	return schema, nil
}

// Lookup returns the schema registered under name, if any.
func (r *Registry) Lookup(name string) (*TypeMeta, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	return m, ok
}

// All returns every interned schema in structural-key order,
// deterministic across calls for the same set of registrations (the
// ordered btree index is what buys this, versus ranging a plain map).
func (r *Registry) All() []*TypeMeta {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*TypeMeta, 0, r.byKey.Len())
	r.byKey.Scan(func(e regEntry) bool {
		out = append(out, e.schema)
		return true
	})
	return out
}
