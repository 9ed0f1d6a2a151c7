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

package tsmeta

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/btree"

	logpkg "github.com/erigontech/erigon-lib/log/v3"
	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/typemeta"
)

var log = logpkg.New("pkg", "tsmeta")

type structKey string

// Descriptor is the structural description passed to Registry.Register,
// mirroring typemeta.SchemaDescriptor's role for TypeMeta.
type Descriptor struct {
	Kind           TSKind
	Scalar         *typemeta.TypeMeta
	Elem           *TSMeta
	Key            *typemeta.TypeMeta
	Fields         []TSField
	FixedSize      int
	WindowSize     int
	WindowDuration int64
	WindowMin      int
}

func (d Descriptor) key(name string) structKey {
	switch d.Kind {
	case KindTS:
		return structKey(fmt.Sprintf("ts:%p", d.Scalar))
	case KindTSS:
		return structKey(fmt.Sprintf("tss:%p", d.Scalar))
	case KindTSW:
		return structKey(fmt.Sprintf("tsw:%p:%d:%d:%d", d.Scalar, d.WindowSize, d.WindowDuration, d.WindowMin))
	case KindREF:
		return structKey(fmt.Sprintf("ref:%p", d.Elem))
	case KindTSL:
		return structKey(fmt.Sprintf("tsl:%p:%d", d.Elem, d.FixedSize))
	case KindTSD:
		return structKey(fmt.Sprintf("tsd:%p:%p", d.Key, d.Elem))
	case KindTSB:
		s := "tsb:"
		for _, f := range d.Fields {
			s += fmt.Sprintf("%s=%p;", f.Name, f.TS)
		}
		return structKey(s)
	case KindSignal:
		return structKey("signal:" + name)
	default:
		return structKey(fmt.Sprintf("%d", d.Kind))
	}
}

type regEntry struct {
	key    structKey
	name   string
	schema *TSMeta
}

// Registry deduplicates TSMeta the same way typemeta.Registry deduplicates
// TypeMeta: by structural key, with a separate name-binding map (spec.md
// §4.D: "Same interning contract as TypeMeta").
type Registry struct {
	mu     sync.Mutex
	byKey  *btree.BTreeG[regEntry]
	byName map[string]*TSMeta
}

func lessEntry(a, b regEntry) bool { return a.key < b.key }

// NewRegistry constructs an empty TSMeta registry.
func NewRegistry() *Registry {
	return &Registry{byKey: btree.NewBTreeG(lessEntry), byName: make(map[string]*TSMeta)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide TSMeta registry.
func Default() *Registry { return defaultRegistry }

// Register interns desc, returning its TSMeta pointer, ErrSchemaAlreadyRegistered
// if name is re-bound to an incompatible structure, or the existing
// pointer if the same structure is re-registered.
func (r *Registry) Register(name string, desc Descriptor) (*TSMeta, error) {
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

	schema := &TSMeta{
		Kind:           desc.Kind,
		Scalar:         desc.Scalar,
		Elem:           desc.Elem,
		Key:            desc.Key,
		Fields:         desc.Fields,
		FixedSize:      desc.FixedSize,
		WindowSize:     desc.WindowSize,
		WindowDuration: desc.WindowDuration,
		WindowMin:      desc.WindowMin,
		Name:           name,
		structKey:      k,
	}
	r.byKey.Set(regEntry{key: k, name: name, schema: schema})
	if name != "" {
		r.byName[name] = schema
	}
	log.Debug("registered ts schema", "kind", desc.Kind.String(), "name", name)
	return schema, nil
}

// Lookup returns the TSMeta registered under name, if any.
func (r *Registry) Lookup(name string) (*TSMeta, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	return m, ok
}

func mustAnon(reg *Registry, desc Descriptor) *TSMeta {
	m, err := reg.Register("", desc)
	if err != nil {
		panic(err)
	}
	return m
}

// TS interns a single-scalar time series.
func TS(reg *Registry, scalar *typemeta.TypeMeta) *TSMeta {
	return mustAnon(reg, Descriptor{Kind: KindTS, Scalar: scalar})
}

// TSB interns a named bundle of time-series fields.
func TSB(reg *Registry, name string, fields []TSField) (*TSMeta, error) {
	return reg.Register(name, Descriptor{Kind: KindTSB, Fields: fields})
}

// TSL interns a homogeneous list of TS; fixedSize == 0 means dynamic.
func TSL(reg *Registry, elem *TSMeta, fixedSize int) *TSMeta {
	return mustAnon(reg, Descriptor{Kind: KindTSL, Elem: elem, FixedSize: fixedSize})
}

// TSD interns a key -> time-series map.
func TSD(reg *Registry, key *typemeta.TypeMeta, elem *TSMeta) *TSMeta {
	return mustAnon(reg, Descriptor{Kind: KindTSD, Key: key, Elem: elem})
}

// TSS interns a set of scalars.
func TSS(reg *Registry, scalar *typemeta.TypeMeta) *TSMeta {
	return mustAnon(reg, Descriptor{Kind: KindTSS, Scalar: scalar})
}

// TSW interns a size- or duration-bounded window of timestamped scalars.
// Exactly one of windowSize/windowDuration should be nonzero.
func TSW(reg *Registry, scalar *typemeta.TypeMeta, windowSize int, windowDuration int64, min int) *TSMeta {
	return mustAnon(reg, Descriptor{Kind: KindTSW, Scalar: scalar, WindowSize: windowSize, WindowDuration: windowDuration, WindowMin: min})
}

// REF interns a time-series value whose payload is a reference to target.
func REF(reg *Registry, target *TSMeta) *TSMeta {
	return mustAnon(reg, Descriptor{Kind: KindREF, Elem: target})
}

var signalSingleton *TSMeta

// SIGNAL interns (once) the pure edge-trigger schema.
func SIGNAL(reg *Registry) *TSMeta {
	if signalSingleton != nil {
		return signalSingleton
	}
	signalSingleton = mustAnon(reg, Descriptor{Kind: KindSignal})
	return signalSingleton
}

const dereferenceCacheSize = 4096

var dereferenceCache = func() *lru.Cache[*TSMeta, *TSMeta] {
	c, err := lru.New[*TSMeta, *TSMeta](dereferenceCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// Dereference strips leading REF layers from m for schema comparisons
// (spec.md §4.D), recursively, with the result cached by pointer identity
// since schemas are interned (GLOSSARY: "Dereference... the operation is
// recursive and cached").
func Dereference(m *TSMeta) *TSMeta {
	if m == nil || m.Kind != KindREF {
		return m
	}
	if cached, ok := dereferenceCache.Get(m); ok {
		return cached
	}
	out := Dereference(m.Elem)
	dereferenceCache.Add(m, out)
	return out
}
