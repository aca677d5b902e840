package infer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind classifies a parsed document value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the parsed form of one sample document. It is produced once by a
// parser and never mutated afterwards.
//
// Object fields keep their discovery order: the inferred type is
// order-independent, but the context labels attached to nested shapes are not.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number string // numeric literal as written, kept for diagnostics
	Str    string
	Elems  []Value
	Fields []FieldValue
}

// FieldValue is one object member in discovery order.
type FieldValue struct {
	Name  string
	Value Value
}

// ParseJSON parses a single JSON document into a Value, preserving object key
// order. Decoding into map[string]any would lose the order, so the token
// stream is walked directly.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, fmt.Errorf("empty document")
		}
		return Value{}, err
	}

	// A document is exactly one value.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("trailing content after document")
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Value{Kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Fields = append(obj.Fields, FieldValue{Name: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return Value{}, err
			}
			return obj, nil
		case '[':
			arr := Value{Kind: KindArray, Elems: []Value{}}
			for dec.More() {
				val, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr.Elems = append(arr.Elems, val)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return Value{}, err
			}
			return arr, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case nil:
		return Value{Kind: KindNull}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Number: t.String()}, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

// ParseYAML parses a YAML document into a Value. Only JSON-shaped YAML is
// accepted: mapping keys must be scalars, and merge keys/anchors resolve
// normally. yaml.Node is used rather than plain Unmarshal because the node
// tree preserves mapping order.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Value{Kind: KindNull}, nil
	}
	return valueFromYAMLNode(doc.Content[0])
}

func valueFromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return valueFromYAMLNode(n.Alias)

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return Value{Kind: KindNull}, nil
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: bad boolean %q", n.Line, n.Value)
			}
			return Value{Kind: KindBool, Bool: b}, nil
		case "!!int", "!!float":
			return Value{Kind: KindNumber, Number: n.Value}, nil
		default:
			// Strings, timestamps and other scalar tags all map to string.
			return Value{Kind: KindString, Str: n.Value}, nil
		}

	case yaml.SequenceNode:
		arr := Value{Kind: KindArray, Elems: make([]Value, 0, len(n.Content))}
		for _, c := range n.Content {
			v, err := valueFromYAMLNode(c)
			if err != nil {
				return Value{}, err
			}
			arr.Elems = append(arr.Elems, v)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := Value{Kind: KindObject, Fields: make([]FieldValue, 0, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			v, err := valueFromYAMLNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			obj.Fields = append(obj.Fields, FieldValue{Name: key.Value, Value: v})
		}
		return obj, nil

	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

// ValueFromAny converts a dynamically-typed JSON value (the representation jq
// programs operate on) into a Value. Map key order is unrecoverable here, so
// keys are sorted for determinism.
func ValueFromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case int:
		return Value{Kind: KindNumber, Number: strconv.Itoa(t)}, nil
	case float64:
		return Value{Kind: KindNumber, Number: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	case *big.Int:
		return Value{Kind: KindNumber, Number: t.String()}, nil
	case json.Number:
		return Value{Kind: KindNumber, Number: t.String()}, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case []any:
		arr := Value{Kind: KindArray, Elems: make([]Value, 0, len(t))}
		for _, e := range t {
			ev, err := ValueFromAny(e)
			if err != nil {
				return Value{}, err
			}
			arr.Elems = append(arr.Elems, ev)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := Value{Kind: KindObject, Fields: make([]FieldValue, 0, len(keys))}
		for _, k := range keys {
			fv, err := ValueFromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			obj.Fields = append(obj.Fields, FieldValue{Name: k, Value: fv})
		}
		return obj, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}
