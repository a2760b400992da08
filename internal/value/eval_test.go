package value_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/value"
)

func TestEval(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected cty.Value
	}{
		{
			name:     "integer",
			input:    "42",
			expected: cty.NumberIntVal(42),
		},
		{
			name:     "negative integer",
			input:    "-7",
			expected: cty.NumberIntVal(-7),
		},
		{
			name:     "float",
			input:    "0.5",
			expected: cty.NumberFloatVal(0.5),
		},
		{
			name:     "scientific float",
			input:    "1e-3",
			expected: cty.NumberFloatVal(0.001),
		},
		{
			name:     "capitalized true",
			input:    "True",
			expected: cty.True,
		},
		{
			name:     "capitalized false",
			input:    "False",
			expected: cty.False,
		},
		{
			name:     "lowercase true stays a string",
			input:    "true",
			expected: cty.StringVal("true"),
		},
		{
			name:     "none becomes null",
			input:    "None",
			expected: cty.NullVal(cty.DynamicPseudoType),
		},
		{
			name:     "single quoted string",
			input:    "'texture'",
			expected: cty.StringVal("texture"),
		},
		{
			name:     "double quoted string",
			input:    `"diffuse"`,
			expected: cty.StringVal("diffuse"),
		},
		{
			name:     "parenthesized tuple",
			input:    "(0, 0, 0)",
			expected: cty.TupleVal([]cty.Value{cty.Zero, cty.Zero, cty.Zero}),
		},
		{
			name:     "bracketed list",
			input:    "[1, 2]",
			expected: cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}),
		},
		{
			name:     "bare comma list",
			input:    "0,0,0",
			expected: cty.TupleVal([]cty.Value{cty.Zero, cty.Zero, cty.Zero}),
		},
		{
			name:     "grouping parens collapse",
			input:    "(5)",
			expected: cty.NumberIntVal(5),
		},
		{
			name:     "single element list",
			input:    "[5]",
			expected: cty.TupleVal([]cty.Value{cty.NumberIntVal(5)}),
		},
		{
			name:     "trailing comma tuple",
			input:    "(5,)",
			expected: cty.TupleVal([]cty.Value{cty.NumberIntVal(5)}),
		},
		{
			name:     "empty tuple",
			input:    "()",
			expected: cty.EmptyTupleVal,
		},
		{
			name:     "empty list",
			input:    "[]",
			expected: cty.EmptyTupleVal,
		},
		{
			name: "nested tuples",
			input: "((0, 0), (1, 1))",
			expected: cty.TupleVal([]cty.Value{
				cty.TupleVal([]cty.Value{cty.Zero, cty.Zero}),
				cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(1)}),
			}),
		},
		{
			name:  "mixed element list",
			input: "('a', 1)",
			expected: cty.TupleVal([]cty.Value{
				cty.StringVal("a"), cty.NumberIntVal(1),
			}),
		},
		{
			name:     "word falls back to string",
			input:    "linear",
			expected: cty.StringVal("linear"),
		},
		{
			name:     "type name falls back to string",
			input:    "int",
			expected: cty.StringVal("int"),
		},
		{
			name:     "partially numeric list falls back whole",
			input:    "0, stop, 0",
			expected: cty.StringVal("0, stop, 0"),
		},
		{
			name:     "unbalanced parens fall back",
			input:    "(0, 1",
			expected: cty.StringVal("(0, 1"),
		},
		{
			name:     "empty string",
			input:    "",
			expected: cty.StringVal(""),
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: cty.StringVal("   "),
		},
		{
			name:     "leading space number",
			input:    " 3 ",
			expected: cty.NumberIntVal(3),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := value.Eval(tc.input)

			assert.True(t, tc.expected.RawEquals(got),
				"Eval(%q) = %#v, expected %#v", tc.input, got, tc.expected)
		})
	}
}

func TestFromTree(t *testing.T) {
	t.Parallel()

	obj := ordered.New[any]()
	obj.Set("b", json.Number("2"))
	obj.Set("a", "x")

	testCases := []struct {
		name     string
		input    any
		expected cty.Value
	}{
		{name: "nil", input: nil, expected: cty.NullVal(cty.DynamicPseudoType)},
		{name: "bool", input: true, expected: cty.True},
		{name: "string", input: "hi", expected: cty.StringVal("hi")},
		{name: "number token", input: json.Number("0.25"), expected: cty.NumberFloatVal(0.25)},
		{name: "integer token", input: json.Number("12"), expected: cty.NumberIntVal(12)},
		{
			name:  "slice",
			input: []any{json.Number("1"), "two"},
			expected: cty.TupleVal([]cty.Value{
				cty.NumberIntVal(1), cty.StringVal("two"),
			}),
		},
		{name: "empty slice", input: []any{}, expected: cty.EmptyTupleVal},
		{
			name:  "ordered map",
			input: obj,
			expected: cty.ObjectVal(map[string]cty.Value{
				"b": cty.NumberIntVal(2),
				"a": cty.StringVal("x"),
			}),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := value.FromTree(tc.input)

			require.True(t, tc.expected.RawEquals(got),
				"FromTree(%#v) = %#v, expected %#v", tc.input, got, tc.expected)
		})
	}
}
