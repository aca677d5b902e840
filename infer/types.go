package infer

import (
	"log/slog"
	"sort"
	"strconv"
)

// TypeKind discriminates the Type sum. The set is closed; the canonicalizer,
// unifier and renderer switch exhaustively over it.
type TypeKind uint8

const (
	TypeNull TypeKind = iota
	TypeBoolean
	TypeNumber
	TypeString
	// TypeArrayOf is an array with a known element type in Elem.
	TypeArrayOf
	// TypeUnknownArray is an array whose element type could not be inferred
	// because no elements were observed.
	TypeUnknownArray
	// TypeObject is a structural object shape. It only exists transiently
	// while a shape is being assembled; the Converter hoists every object
	// shape into the Cache and replaces it with a TypeReference.
	TypeObject
	// TypeUnion is the widened form of conflicting observations,
	// e.g. number | string. Variants are deduplicated and ordered by
	// canonical key.
	TypeUnion
	// TypeReference points at a hoisted object declaration in the Cache.
	TypeReference
)

// Type is a structural type derived from sample values.
type Type struct {
	Kind     TypeKind
	Elem     *Type   // TypeArrayOf
	Fields   []Field // TypeObject, sorted by name
	Variants []Type  // TypeUnion, sorted by canonical key
	Ref      DeclID  // TypeReference
}

// Field is one member of an object shape. Optional marks fields that were
// absent in at least one observation of the shape.
type Field struct {
	Name     string
	Type     Type
	Optional bool
}

// DeclID identifies one declaration in the Cache. IDs are assigned
// monotonically and never reused within a run.
type DeclID int

// AliasName returns the emitted alias name for a declaration id. Names derive
// from the id alone, so they are stable and collision-free across the set.
func (id DeclID) AliasName() string {
	return "T" + strconv.Itoa(int(id))
}

// Declaration is one deduplicated object shape plus its provenance.
type Declaration struct {
	ID   DeclID
	Type Type // always a TypeObject shape
	// Contexts lists every position that observed this shape, first seen
	// first. Duplicates within the same context are not re-added.
	Contexts []string
}

// Options configures a Converter.
type Options struct {
	// Logger receives debug-level tracing of interning and merging.
	// nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the default converter configuration.
func DefaultOptions() Options {
	return Options{
		Logger: nil,
	}
}

// Primitive type constructors, mirroring the Value kinds.

func NullType() Type    { return Type{Kind: TypeNull} }
func BooleanType() Type { return Type{Kind: TypeBoolean} }
func NumberType() Type  { return Type{Kind: TypeNumber} }
func StringType() Type  { return Type{Kind: TypeString} }

// UnknownArrayType is the type of an array with no observed elements.
func UnknownArrayType() Type { return Type{Kind: TypeUnknownArray} }

// ArrayOf returns an array type with the given element type.
func ArrayOf(elem Type) Type {
	return Type{Kind: TypeArrayOf, Elem: &elem}
}

// Reference returns a reference to a hoisted declaration.
func Reference(id DeclID) Type {
	return Type{Kind: TypeReference, Ref: id}
}

// ObjectShape builds an object shape from fields, sorting by name and keeping
// the last entry when a name repeats (JSON duplicate-key semantics).
func ObjectShape(fields []Field) Type {
	byName := make(map[string]Field, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, seen := byName[f.Name]; !seen {
			names = append(names, f.Name)
		}
		byName[f.Name] = f
	}
	sorted := make([]Field, 0, len(names))
	for _, n := range names {
		sorted = append(sorted, byName[n])
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return Type{Kind: TypeObject, Fields: sorted}
}
