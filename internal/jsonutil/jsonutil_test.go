package jsonutil_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nodedesc/internal/jsonutil"
	"github.com/vk/nodedesc/internal/ordered"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	t.Parallel()

	const doc = `{"name": "PxrMix", "node_type": "pattern", "params": [], "axis": 2}`

	v, err := jsonutil.Decode(strings.NewReader(doc))

	require.NoError(t, err)
	obj, ok := v.(*ordered.Map[any])
	require.True(t, ok)
	assert.Equal(t, []string{"name", "node_type", "params", "axis"}, obj.Keys())
}

func TestDecodeNesting(t *testing.T) {
	t.Parallel()

	const doc = `{"params": [{"name": "gain", "default": [0, 0.5, 1]}], "flag": true, "none": null}`

	v, err := jsonutil.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	obj := v.(*ordered.Map[any])

	rawParams, ok := obj.Get("params")
	require.True(t, ok)
	params, ok := rawParams.([]any)
	require.True(t, ok)
	require.Len(t, params, 1)

	param, ok := params[0].(*ordered.Map[any])
	require.True(t, ok)
	rawDefault, _ := param.Get("default")
	assert.Equal(t, []any{json.Number("0"), json.Number("0.5"), json.Number("1")}, rawDefault)

	flag, _ := obj.Get("flag")
	assert.Equal(t, true, flag)
	none, ok := obj.Get("none")
	assert.True(t, ok)
	assert.Nil(t, none)
}

func TestDecodeNumbersKeepRawForm(t *testing.T) {
	t.Parallel()

	v, err := jsonutil.Decode(strings.NewReader(`{"size": 3, "gain": 0.6180339887498949}`))

	require.NoError(t, err)
	obj := v.(*ordered.Map[any])
	size, _ := obj.Get("size")
	assert.Equal(t, json.Number("3"), size)
	gain, _ := obj.Get("gain")
	assert.Equal(t, json.Number("0.6180339887498949"), gain)
}

func TestDecodeScalarDocument(t *testing.T) {
	t.Parallel()

	v, err := jsonutil.Decode(strings.NewReader(`"just a string"`))

	require.NoError(t, err)
	assert.Equal(t, "just a string", v)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{
		{name: "truncated object", input: `{"name": `},
		{name: "trailing data", input: `{} {}`},
		{name: "empty input", input: ``},
		{name: "bare word", input: `pattern`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := jsonutil.Decode(strings.NewReader(tc.input))

			require.Error(t, err)
		})
	}
}

func TestDecodeDuplicateKeysLastWins(t *testing.T) {
	t.Parallel()

	v, err := jsonutil.Decode(strings.NewReader(`{"widget": "default", "widget": "mapper"}`))

	require.NoError(t, err)
	obj := v.(*ordered.Map[any])
	assert.Equal(t, []string{"widget"}, obj.Keys())
	w, _ := obj.Get("widget")
	assert.Equal(t, "mapper", w)
}
