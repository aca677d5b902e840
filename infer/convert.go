package infer

import "log/slog"

// Converter walks parsed Values and grows the declaration cache. It owns the
// cache for the whole run: one Converter, one Cache, no concurrent use.
type Converter struct {
	cache *Cache
	log   *slog.Logger
}

// NewConverter creates a Converter with an empty cache.
func NewConverter(opts Options) *Converter {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Converter{
		cache: NewCache(),
		log:   log,
	}
}

// Cache exposes the declaration cache for rendering once all documents have
// been converted.
func (c *Converter) Cache() *Cache {
	return c.cache
}

// Convert derives the structural type of one document value. context labels
// where the value came from (the document's relative path for the root);
// nested shapes extend it with field names and [] markers.
//
// Object shapes are hoisted into the cache bottom-up and come back as
// references, so the returned type is a Reference whenever the root is an
// object; primitives and arrays of primitives return directly.
func (c *Converter) Convert(v Value, context string) Type {
	switch v.Kind {
	case KindNull:
		return NullType()
	case KindBool:
		return BooleanType()
	case KindNumber:
		return NumberType()
	case KindString:
		return StringType()

	case KindArray:
		if len(v.Elems) == 0 {
			c.log.Debug("empty array, element type unresolved", "context", context)
			return UnknownArrayType()
		}
		elemContext := context + "[]"
		elem := c.Convert(v.Elems[0], elemContext)
		for _, e := range v.Elems[1:] {
			elem = c.Unify(elem, c.Convert(e, elemContext), elemContext)
		}
		return ArrayOf(elem)

	case KindObject:
		fields := make([]Field, 0, len(v.Fields))
		for _, fv := range v.Fields {
			fields = append(fields, Field{
				Name: fv.Name,
				Type: c.Convert(fv.Value, context+"."+fv.Name),
			})
		}
		return c.hoist(ObjectShape(fields), context)

	default:
		// Unreachable for well-formed Values; widen rather than fail.
		return UnknownArrayType()
	}
}

// hoist interns an object shape: an already-known shape gains a context, a
// new shape gets a fresh declaration. Either way the shape is replaced by a
// reference.
func (c *Converter) hoist(shape Type, context string) Type {
	key := canonicalKey(shape, c.cache)
	if id, ok := c.cache.Lookup(key); ok {
		c.cache.AddContext(id, context)
		c.log.Debug("shape already interned", "id", int(id), "context", context)
		return Reference(id)
	}
	id := c.cache.Insert(shape, key, context)
	c.log.Debug("interned new shape", "id", int(id), "fields", len(shape.Fields), "context", context)
	return Reference(id)
}
