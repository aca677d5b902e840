package infer

import (
	"sort"
	"strings"
)

// Renderer turns the finalized cache into emittable type-alias text. Alias
// names derive from declaration ids; declarations reachable from at least one
// document's top-level type are marked exported.
type Renderer struct {
	cache    *Cache
	exported map[DeclID]bool
}

// NewRenderer builds a renderer over a finalized cache. roots are the
// top-level types returned by Convert for each document; everything reachable
// from them is exported.
func NewRenderer(cache *Cache, roots []Type) *Renderer {
	r := &Renderer{
		cache:    cache,
		exported: make(map[DeclID]bool),
	}
	for _, root := range roots {
		r.markReachable(root)
	}
	return r
}

func (r *Renderer) markReachable(t Type) {
	switch t.Kind {
	case TypeReference:
		if r.exported[t.Ref] {
			return
		}
		r.exported[t.Ref] = true
		r.markReachable(r.cache.Get(t.Ref).Type)
	case TypeArrayOf:
		r.markReachable(*t.Elem)
	case TypeObject:
		for _, f := range t.Fields {
			r.markReachable(f.Type)
		}
	case TypeUnion:
		for _, v := range t.Variants {
			r.markReachable(v)
		}
	}
}

// Exported reports whether a declaration is reachable from any document root.
func (r *Renderer) Exported(id DeclID) bool {
	return r.exported[id]
}

// TypeExpr renders a type expression, expanding references into alias names.
func (r *Renderer) TypeExpr(t Type) string {
	switch t.Kind {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"

	case TypeUnknownArray:
		// Explicit unresolved marker; these declarations are additionally
		// collected into the warning report.
		return "unknown[]"

	case TypeArrayOf:
		elem := r.TypeExpr(*t.Elem)
		if t.Elem.Kind == TypeUnion {
			return "(" + elem + ")[]"
		}
		return elem + "[]"

	case TypeObject:
		if len(t.Fields) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			name := f.Name
			if f.Optional {
				name += "?"
			}
			parts = append(parts, name+": "+r.TypeExpr(f.Type))
		}
		return "{ " + strings.Join(parts, "; ") + " }"

	case TypeUnion:
		parts := make([]string, 0, len(t.Variants))
		for _, v := range t.Variants {
			parts = append(parts, r.TypeExpr(v))
		}
		return strings.Join(parts, " | ")

	case TypeReference:
		return t.Ref.AliasName()

	default:
		return "unknown"
	}
}

// Declaration renders one alias statement with its provenance comment.
func (r *Renderer) Declaration(d *Declaration) string {
	var b strings.Builder
	if r.exported[d.ID] {
		b.WriteString("export ")
	}
	b.WriteString("type ")
	b.WriteString(d.ID.AliasName())
	b.WriteString(" = ")
	b.WriteString(r.TypeExpr(d.Type))
	b.WriteString("; // ")
	b.WriteString(strings.Join(d.Contexts, ", "))
	return b.String()
}

// RenderAll renders every declaration in cache insertion order, one per line.
func (r *Renderer) RenderAll() string {
	var b strings.Builder
	for _, d := range r.cache.Declarations() {
		b.WriteString(r.Declaration(d))
		b.WriteByte('\n')
	}
	return b.String()
}

// UnresolvedArrays returns, once each and in insertion order, the
// declarations whose own shape contains an unresolved array. Unresolved
// arrays inside a referenced shape are reported against that shape, not the
// referrer.
func (r *Renderer) UnresolvedArrays() []*Declaration {
	var out []*Declaration
	for _, d := range r.cache.Declarations() {
		if ContainsUnknownArray(d.Type) {
			out = append(out, d)
		}
	}
	return out
}

// ContainsUnknownArray reports whether a type contains an unresolved array,
// without following references.
func ContainsUnknownArray(t Type) bool {
	switch t.Kind {
	case TypeUnknownArray:
		return true
	case TypeArrayOf:
		return ContainsUnknownArray(*t.Elem)
	case TypeObject:
		for _, f := range t.Fields {
			if ContainsUnknownArray(f.Type) {
				return true
			}
		}
	case TypeUnion:
		for _, v := range t.Variants {
			if ContainsUnknownArray(v) {
				return true
			}
		}
	}
	return false
}

// CollectRefs returns the distinct declaration ids referenced by a type, in
// ascending id order. The emitter uses this to build stub imports.
func CollectRefs(t Type) []DeclID {
	seen := make(map[DeclID]struct{})
	var walk func(Type)
	walk = func(t Type) {
		switch t.Kind {
		case TypeReference:
			seen[t.Ref] = struct{}{}
		case TypeArrayOf:
			walk(*t.Elem)
		case TypeObject:
			for _, f := range t.Fields {
				walk(f.Type)
			}
		case TypeUnion:
			for _, v := range t.Variants {
				walk(v)
			}
		}
	}
	walk(t)

	out := make([]DeclID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
