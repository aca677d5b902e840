package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Invalid(t *testing.T) {
	_, err := New(".items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestApply_Identity(t *testing.T) {
	f, err := New(".")
	require.NoError(t, err)

	out, err := f.Apply(map[string]any{"a": 1.0})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, map[string]any{"a": 1.0}, out[0])
}

func TestApply_MultipleYields(t *testing.T) {
	f, err := New(".items[]")
	require.NoError(t, err)

	out, err := f.Apply(map[string]any{"items": []any{1.0, "x", true}})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, "x", true}, out)
}

func TestApply_Projection(t *testing.T) {
	f, err := New("{name: .user.name}")
	require.NoError(t, err)

	out, err := f.Apply(map[string]any{"user": map[string]any{"name": "x", "age": 3.0}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, map[string]any{"name": "x"}, out[0])
}

func TestApply_RuntimeErrorIsFatal(t *testing.T) {
	f, err := New(".a[]")
	require.NoError(t, err)

	_, err = f.Apply(map[string]any{"a": 1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jq filter")
}

func TestExpr(t *testing.T) {
	f, err := New(".items[]")
	require.NoError(t, err)
	assert.Equal(t, ".items[]", f.Expr())
}
