package infer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParseJSON_FieldOrderPreserved verifies object keys keep discovery order
func TestParseJSON_FieldOrderPreserved(t *testing.T) {
	v, err := ParseJSON([]byte(`{"b": 1, "a": 2, "c": 3}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if v.Kind != KindObject {
		t.Fatalf("Expected object, got %v", v.Kind)
	}

	var names []string
	for _, f := range v.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, names); diff != "" {
		t.Errorf("Field order mismatch (-want +got):\n%s", diff)
	}
}

// TestParseJSON_Kinds verifies every value kind round-trips from the token stream
func TestParseJSON_Kinds(t *testing.T) {
	v, err := ParseJSON([]byte(`{"n": null, "b": true, "num": 1.5, "s": "x", "arr": [1], "obj": {}}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	want := map[string]ValueKind{
		"n": KindNull, "b": KindBool, "num": KindNumber,
		"s": KindString, "arr": KindArray, "obj": KindObject,
	}
	for _, f := range v.Fields {
		if f.Value.Kind != want[f.Name] {
			t.Errorf("Field %q: expected kind %v, got %v", f.Name, want[f.Name], f.Value.Kind)
		}
	}

	if v.Fields[2].Value.Number != "1.5" {
		t.Errorf("Expected numeric literal 1.5, got %q", v.Fields[2].Value.Number)
	}
}

// TestParseJSON_TrailingContent verifies a document must be exactly one value
func TestParseJSON_TrailingContent(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"a": 1} {"b": 2}`)); err == nil {
		t.Error("Expected error for trailing content")
	}
}

// TestParseJSON_Malformed verifies invalid JSON is rejected
func TestParseJSON_Malformed(t *testing.T) {
	for _, bad := range []string{``, `{`, `{"a":}`, `[1,]`} {
		if _, err := ParseJSON([]byte(bad)); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

// TestParseYAML_MappingOrderPreserved verifies the node tree keeps key order
func TestParseYAML_MappingOrderPreserved(t *testing.T) {
	v, err := ParseYAML([]byte("z: 1\na: two\nm: true\n"))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	var names []string
	for _, f := range v.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, names); diff != "" {
		t.Errorf("Field order mismatch (-want +got):\n%s", diff)
	}

	if v.Fields[0].Value.Kind != KindNumber || v.Fields[1].Value.Kind != KindString || v.Fields[2].Value.Kind != KindBool {
		t.Errorf("Unexpected kinds: %v %v %v", v.Fields[0].Value.Kind, v.Fields[1].Value.Kind, v.Fields[2].Value.Kind)
	}
}

// TestParseYAML_AliasResolves verifies anchors and aliases resolve to values
func TestParseYAML_AliasResolves(t *testing.T) {
	v, err := ParseYAML([]byte("base: &b\n  x: 1\nother: *b\n"))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if len(v.Fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(v.Fields))
	}
	if v.Fields[1].Value.Kind != KindObject {
		t.Errorf("Expected alias to resolve to object, got %v", v.Fields[1].Value.Kind)
	}
}

// TestValueFromAny_SortedKeys verifies dynamic maps convert with sorted keys
func TestValueFromAny_SortedKeys(t *testing.T) {
	v, err := ValueFromAny(map[string]any{"c": 1.0, "a": "x", "b": nil})
	if err != nil {
		t.Fatalf("ValueFromAny failed: %v", err)
	}

	var names []string
	for _, f := range v.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("Key order mismatch (-want +got):\n%s", diff)
	}
}

// TestValueFromAny_Numbers verifies the numeric representations jq produces
func TestValueFromAny_Numbers(t *testing.T) {
	for _, in := range []any{1, 1.5, float64(2)} {
		v, err := ValueFromAny(in)
		if err != nil {
			t.Fatalf("ValueFromAny(%v) failed: %v", in, err)
		}
		if v.Kind != KindNumber {
			t.Errorf("ValueFromAny(%v): expected number, got %v", in, v.Kind)
		}
	}
}
