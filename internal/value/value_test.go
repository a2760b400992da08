package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/value"
)

func TestStripCFloatSuffix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "0.001f", expected: "0.001"},
		{input: "1f", expected: "1"},
		{input: "-1.2e-3f", expected: "-1.2e-3"},
		{input: "+.5f", expected: "+.5"},
		{input: "0.001", expected: "0.001"},
		{input: "f", expected: "f"},
		{input: "leaf", expected: "leaf"},
		{input: "fstop", expected: "fstop"},
		{input: "1fff", expected: "1fff"},
		{input: "", expected: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, value.StripCFloatSuffix(tc.input))
		})
	}
}

func TestCleanFloats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips every suffixed token",
			input:    "0.5f 1.0f 2f",
			expected: "0.5 1.0 2",
		},
		{
			name:     "mixed tokens strip only literals",
			input:    "offset 0.25f end",
			expected: "offset 0.25 end",
		},
		{
			name:     "untouched input returned verbatim",
			input:    "a  label   with   spacing",
			expected: "a  label   with   spacing",
		},
		{
			name:     "plain numbers untouched",
			input:    "0 0 0",
			expected: "0 0 0",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, value.CleanFloats(tc.input))
		})
	}
}

func TestToBool(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input     string
		expected  bool
		expectErr bool
	}{
		{input: "1", expected: true},
		{input: "0", expected: false},
		{input: "-3", expected: true},
		{input: " 1 ", expected: true},
		{input: "true", expected: true},
		{input: "True", expected: true},
		{input: "FALSE", expected: false},
		{input: "false", expected: false},
		{input: "yes", expectErr: true},
		{input: "", expectErr: true},
		{input: "0.5", expectErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := value.ToBool(tc.input)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCoerceBool(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		input     cty.Value
		expected  bool
		expectErr bool
	}{
		{name: "bool true", input: cty.True, expected: true},
		{name: "bool false", input: cty.False, expected: false},
		{name: "non-zero number", input: cty.NumberIntVal(2), expected: true},
		{name: "zero number", input: cty.NumberIntVal(0), expected: false},
		{name: "numeric string", input: cty.StringVal("1"), expected: true},
		{name: "word string", input: cty.StringVal("false"), expected: false},
		{name: "unparseable string", input: cty.StringVal("maybe"), expectErr: true},
		{name: "null", input: cty.NullVal(cty.Bool), expectErr: true},
		{name: "unset", input: cty.NilVal, expectErr: true},
		{name: "tuple", input: cty.TupleVal([]cty.Value{cty.True}), expectErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := value.CoerceBool(tc.input)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
