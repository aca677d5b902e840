package infer

import "sort"

// Unify merges two type observations made at the same structural position
// into one type. It is commutative and associative, and unifying a type with
// itself is the identity.
//
// The widening policy for conflicting observations is a union type
// (number | string), not a collapse to unknown: concrete information from
// either side is never discarded. Within a union, object references always
// merge into a single shape and array observations always merge into a single
// array, so a union holds at most one variant per type family.
func (c *Converter) Unify(a, b Type, context string) Type {
	if canonicalKey(a, c.cache) == canonicalKey(b, c.cache) {
		return a
	}

	switch {
	case a.Kind == TypeReference && b.Kind == TypeReference:
		if a.Ref == b.Ref {
			return a
		}
		merged := c.mergeShapes(c.cache.Get(a.Ref).Type, c.cache.Get(b.Ref).Type, context)
		return c.hoist(merged, context)

	case isArrayKind(a.Kind) && isArrayKind(b.Kind):
		return c.unifyArrays(a, b, context)

	default:
		return c.union(context, a, b)
	}
}

func isArrayKind(k TypeKind) bool {
	return k == TypeArrayOf || k == TypeUnknownArray
}

// unifyArrays applies the array rules: absence of element information never
// wins over information.
func (c *Converter) unifyArrays(a, b Type, context string) Type {
	switch {
	case a.Kind == TypeUnknownArray && b.Kind == TypeUnknownArray:
		return UnknownArrayType()
	case a.Kind == TypeUnknownArray:
		return b
	case b.Kind == TypeUnknownArray:
		return a
	default:
		return ArrayOf(c.Unify(*a.Elem, *b.Elem, context+"[]"))
	}
}

// mergeShapes combines two object shapes: the field set is the union of both,
// one-sided fields become optional, both-sided fields unify recursively.
// The result is a transient shape; the caller re-hoists it.
func (c *Converter) mergeShapes(a, b Type, context string) Type {
	bByName := make(map[string]Field, len(b.Fields))
	for _, f := range b.Fields {
		bByName[f.Name] = f
	}

	merged := make([]Field, 0, len(a.Fields)+len(b.Fields))
	for _, fa := range a.Fields {
		fb, inBoth := bByName[fa.Name]
		if !inBoth {
			fa.Optional = true
			merged = append(merged, fa)
			continue
		}
		delete(bByName, fa.Name)
		merged = append(merged, Field{
			Name:     fa.Name,
			Type:     c.Unify(fa.Type, fb.Type, context+"."+fa.Name),
			Optional: fa.Optional || fb.Optional,
		})
	}
	for _, fb := range b.Fields {
		if _, remaining := bByName[fb.Name]; remaining {
			fb.Optional = true
			merged = append(merged, fb)
		}
	}

	return ObjectShape(merged)
}

// union widens mismatched observations into a union type. Variants of nested
// unions are flattened; object references and array types are folded into at
// most one variant each; the rest deduplicate by canonical key and sort by
// canonical key, which makes the result independent of argument order.
func (c *Converter) union(context string, types ...Type) Type {
	var flat []Type
	for _, t := range types {
		if t.Kind == TypeUnion {
			flat = append(flat, t.Variants...)
		} else {
			flat = append(flat, t)
		}
	}

	var refs []Type
	var arrays []Type
	var rest []Type
	for _, t := range flat {
		switch {
		case t.Kind == TypeReference:
			refs = append(refs, t)
		case isArrayKind(t.Kind):
			arrays = append(arrays, t)
		default:
			rest = append(rest, t)
		}
	}

	variants := rest
	if len(refs) > 0 {
		folded := refs[0]
		for _, r := range refs[1:] {
			folded = c.Unify(folded, r, context)
		}
		variants = append(variants, folded)
	}
	if len(arrays) > 0 {
		folded := arrays[0]
		for _, a := range arrays[1:] {
			folded = c.unifyArrays(folded, a, context)
		}
		variants = append(variants, folded)
	}

	type keyed struct {
		key string
		t   Type
	}
	seen := make(map[string]struct{}, len(variants))
	uniq := make([]keyed, 0, len(variants))
	for _, v := range variants {
		k := canonicalKey(v, c.cache)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, keyed{key: k, t: v})
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].key < uniq[j].key })

	if len(uniq) == 1 {
		return uniq[0].t
	}
	out := make([]Type, 0, len(uniq))
	for _, kv := range uniq {
		out = append(out, kv.t)
	}
	return Type{Kind: TypeUnion, Variants: out}
}
