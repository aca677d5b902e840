package infer

// Cache is the append-only declaration store for one run. It guarantees at
// most one Declaration per canonical shape key: the index and the declaration
// map grow together and nothing is ever removed or reassigned.
//
// The Cache is mutably owned by a single Converter; there is exactly one live
// Cache per run and no concurrent writers. If parsing is ever parallelized,
// conversion must stay a single serialized writer, because dedup correctness
// depends on Lookup/Insert pairs being linearizable.
type Cache struct {
	decls  map[DeclID]*Declaration
	index  map[string]DeclID // canonical key -> id
	keys   map[DeclID]string // id -> canonical key
	order  []DeclID          // insertion order, for rendering
	nextID DeclID
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		decls: make(map[DeclID]*Declaration),
		index: make(map[string]DeclID),
		keys:  make(map[DeclID]string),
	}
}

// Lookup returns the declaration id for a canonical key, if present.
func (c *Cache) Lookup(key string) (DeclID, bool) {
	id, ok := c.index[key]
	return id, ok
}

// Insert adds a new declaration for a shape that has no entry yet and returns
// its freshly assigned id.
func (c *Cache) Insert(shape Type, key, context string) DeclID {
	id := c.nextID
	c.nextID++
	c.decls[id] = &Declaration{
		ID:       id,
		Type:     shape,
		Contexts: []string{context},
	}
	c.index[key] = id
	c.keys[id] = key
	c.order = append(c.order, id)
	return id
}

// AddContext appends a context to an existing declaration. Re-observations
// from a context already recorded are not re-added.
func (c *Cache) AddContext(id DeclID, context string) {
	d := c.decls[id]
	for _, existing := range d.Contexts {
		if existing == context {
			return
		}
	}
	d.Contexts = append(d.Contexts, context)
}

// Get returns the declaration for an id. The id must exist.
func (c *Cache) Get(id DeclID) *Declaration {
	return c.decls[id]
}

// Declarations returns all declarations in insertion order.
func (c *Cache) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.decls[id])
	}
	return out
}

// Len reports the number of distinct declarations.
func (c *Cache) Len() int {
	return len(c.order)
}

func (c *Cache) keyOf(id DeclID) string {
	return c.keys[id]
}
