// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const typeDuration Type = "duration"

func parseDuration(cur *Cursor, _ Directives) (time.Duration, error) {
	n := cur.boundary()
	d, err := time.ParseDuration(cur.Rest()[:n])
	if err != nil {
		return 0, err
	}
	cur.Advance(n)
	return d, nil
}

func TestType_Slice(t *testing.T) {
	assert.Equal(t, Type("[]int"), SliceOf(TypeInt))
	assert.True(t, SliceOf(TypeInt).IsSlice())
	assert.False(t, TypeInt.IsSlice())
	assert.Equal(t, TypeInt, SliceOf(TypeInt).Elem())
	assert.Equal(t, TypeString, TypeString.Elem())
}

func TestParserRegistry_BuiltIns(t *testing.T) {
	r := NewParserRegistry()
	assert.Equal(t, []Type{TypeBool, TypeInt, TypeString}, r.Types())
	assert.False(t, r.Has(TypeSender))

	assert.Empty(t, NewEmptyParserRegistry().Types())
}

func TestParserRegistry_Parse(t *testing.T) {
	r := NewParserRegistry()

	cur := NewCursor("42 rest")
	v, err := r.Parse(TypeInt, cur, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, " rest", cur.Rest())

	_, err = r.Parse(typeDuration, NewCursor("5s"), nil)
	require.Error(t, err)
	assert.Equal(t, CodeUnrecognizedArgType, FaultCode(err))
}

func TestRegisterParser_Custom(t *testing.T) {
	r := NewParserRegistry()
	RegisterParser(r, typeDuration, parseDuration)
	require.True(t, r.Has(typeDuration))

	v, err := r.Parse(typeDuration, NewCursor("1m30s"), nil)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, v)

	t.Run("foreign failures become invalid argument faults", func(t *testing.T) {
		_, err := r.Parse(typeDuration, NewCursor("soon"), nil)
		require.Error(t, err)
		assert.True(t, IsParseFault(err))
		assert.Equal(t, CodeInvalidArgument, FaultCode(err))
	})

	t.Run("collects typed slices", func(t *testing.T) {
		out, err := r.collect(typeDuration, []any{time.Second, time.Minute})
		require.NoError(t, err)
		assert.Equal(t, []time.Duration{time.Second, time.Minute}, out)
	})

	t.Run("replaces an existing parser", func(t *testing.T) {
		RegisterParser(r, TypeString, func(cur *Cursor, _ Directives) (string, error) {
			return strings.ToUpper(cur.TakeAll()), nil
		})
		v, err := r.Parse(TypeString, NewCursor("abc def"), nil)
		require.NoError(t, err)
		assert.Equal(t, "ABC DEF", v)
	})
}

func TestRegisterParser_ParseFaultPassesThrough(t *testing.T) {
	r := NewEmptyParserRegistry()
	RegisterParser(r, "strict", func(_ *Cursor, _ Directives) (string, error) {
		return "", ErrMissingArgument("value")
	})

	_, err := r.Parse("strict", NewCursor("x"), nil)
	require.Error(t, err)
	assert.Equal(t, CodeMissingArgument, FaultCode(err))
}

func TestParserRegistry_Accepts(t *testing.T) {
	r := NewParserRegistry()
	RegisterParser(r, typeDuration, parseDuration)

	tests := []struct {
		name string
		typ  Type
		v    any
		want bool
	}{
		{"int", TypeInt, 3, true},
		{"string for int", TypeInt, "3", false},
		{"int64 for int", TypeInt, int64(3), false},
		{"nil for string", TypeString, nil, false},
		{"bool", TypeBool, false, true},
		{"custom type", typeDuration, time.Second, true},
		{"int slice", SliceOf(TypeInt), []int{1, 2}, true},
		{"nil int slice", SliceOf(TypeInt), []int(nil), true},
		{"string slice for int slice", SliceOf(TypeInt), []string{"1"}, false},
		{"element for slice", SliceOf(TypeInt), 1, false},
		{"unregistered type", TypeSender, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Accepts(tt.typ, tt.v))
		})
	}
}

func TestRegisterParser_RejectsSliceType(t *testing.T) {
	r := NewEmptyParserRegistry()
	assert.Panics(t, func() {
		RegisterParser(r, SliceOf(TypeInt), ParseInt)
	})
}

func TestParserRegistry_ParseValue(t *testing.T) {
	r := NewParserRegistry()

	tests := []struct {
		name     string
		typ      Type
		text     string
		want     any
		wantCode string
	}{
		{"int", TypeInt, "10", 10, ""},
		{"int with padding", TypeInt, "  10 ", 10, ""},
		{"bool", TypeBool, "yes", true, ""},
		{"quoted string", TypeString, `"two words"`, "two words", ""},
		{"trailing input", TypeInt, "10 20", nil, CodeInvalidArgument},
		{"bad int", TypeInt, "ten", nil, CodeIntegerFormat},
		{"unknown type", typeDuration, "1s", nil, CodeUnrecognizedArgType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ParseValue(tt.typ, tt.text)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, FaultCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectives_Has(t *testing.T) {
	assert.True(t, Directives{DirectiveRestOfInput}.Has(DirectiveRestOfInput))
	assert.False(t, Directives(nil).Has(DirectiveRestOfInput))
}
