package infer

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
)

// canonicalKey returns the deterministic structural key for a type. Two types
// have the same key iff they are the same shape, regardless of the order in
// which fields or union variants were discovered. The key is the sha256 hex
// digest of a canonical byte encoding.
//
// References encode as the canonical key of the referenced declaration, so an
// array-of-object key depends on the element shape having been hoisted first.
// The Converter works bottom-up, which guarantees that.
func canonicalKey(t Type, c *Cache) string {
	w := newCanonWriter()
	encodeType(t, c, w)
	sum := sha256.Sum256(w.Bytes())
	return hex.EncodeToString(sum[:])
}

// encodeType writes the canonical encoding of t.
func encodeType(t Type, c *Cache, w *canonWriter) {
	switch t.Kind {
	case TypeNull:
		w.WriteString("null")
	case TypeBoolean:
		w.WriteString("boolean")
	case TypeNumber:
		w.WriteString("number")
	case TypeString:
		w.WriteString("string")

	case TypeUnknownArray:
		w.WriteString("array[?]")

	case TypeArrayOf:
		w.WriteString("array[")
		encodeType(*t.Elem, c, w)
		w.WriteByte(']')

	case TypeObject:
		// Fields are kept sorted by ObjectShape, but sort a copy anyway so
		// the key never depends on construction discipline.
		fields := make([]Field, len(t.Fields))
		copy(fields, t.Fields)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

		w.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				w.WriteByte(';')
			}
			w.WriteString(strconv.Quote(f.Name))
			if f.Optional {
				w.WriteByte('?')
			}
			w.WriteByte(':')
			encodeType(f.Type, c, w)
		}
		w.WriteByte('}')

	case TypeUnion:
		// Encode each variant separately, dedup by content and sort
		// lexicographically so variant discovery order never leaks into
		// the key.
		seen := make(map[string]struct{}, len(t.Variants))
		encoded := make([]string, 0, len(t.Variants))
		for _, v := range t.Variants {
			vw := newCanonWriter()
			encodeType(v, c, vw)
			s := string(vw.Bytes())
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			encoded = append(encoded, s)
		}
		sort.Strings(encoded)

		w.WriteString("union(")
		for i, s := range encoded {
			if i > 0 {
				w.WriteByte('|')
			}
			w.WriteString(s)
		}
		w.WriteByte(')')

	case TypeReference:
		w.WriteString("ref:")
		w.WriteString(c.keyOf(t.Ref))
	}
}

// canonWriter is an append-only buffer for canonical encodings.
type canonWriter struct {
	buf []byte
}

func newCanonWriter() *canonWriter {
	return &canonWriter{buf: make([]byte, 0, 256)}
}

func (w *canonWriter) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

func (w *canonWriter) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

func (w *canonWriter) Bytes() []byte {
	return w.buf
}
