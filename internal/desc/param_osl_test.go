package desc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/oslquery"
	"github.com/vk/nodedesc/internal/testutil"
)

func meta(name string, v cty.Value) oslquery.Metadatum {
	return oslquery.Metadatum{Name: name, Type: "string", Default: v}
}

func TestParseOSLParam_Basics(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	rec := oslquery.Param{
		Name: "colorA",
		Type: "color",
		Default: cty.TupleVal([]cty.Value{
			cty.NumberFloatVal(1), cty.NumberFloatVal(1), cty.NumberFloatVal(1),
		}),
		Metadata: []oslquery.Metadatum{
			meta("label", cty.StringVal("Color A")),
			meta("page", cty.StringVal("Pattern.Colors")),
			meta("page_open", cty.NumberIntVal(1)),
			meta("help", cty.StringVal("First  checker color.")),
		},
	}

	p, err := parseOSLParam(ctx, rec, &Options{})

	require.NoError(t, err)
	assert.Equal(t, CategoryParam, p.Category)
	assert.Equal(t, "color", p.Type)
	assert.Nil(t, p.Size)
	assert.Equal(t, "Pattern|Colors", p.Page)
	require.NotNil(t, p.PageOpen)
	assert.True(t, *p.PageOpen)
	// Doubled spaces collapse, then the identity suffix lands.
	assert.Equal(t, "First checker color.<br><br>colorA (color)", p.Help)
	label, ok := p.Extra.Get("label")
	require.True(t, ok)
	assert.True(t, cty.StringVal("Color A").RawEquals(label))
}

func TestParseOSLParam_TypeAndSize(t *testing.T) {
	t.Parallel()

	t.Run("array type strips the bracket suffix", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "knots", Type: "float[4]", ArrayLen: 4,
		}, &Options{})

		require.NoError(t, err)
		assert.Equal(t, "float", p.Type)
		require.NotNil(t, p.Size)
		assert.Equal(t, 4, *p.Size)
	})

	t.Run("variable length array", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "positions", Type: "float[]", VarLenArray: true,
		}, &Options{})

		require.NoError(t, err)
		require.NotNil(t, p.Size)
		assert.Equal(t, -1, *p.Size)
		assert.True(t, p.IsDynamicArray())
	})

	t.Run("struct keeps its struct name", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "placement", Type: "ManifoldStruct", IsStruct: true,
			StructName: "ManifoldStruct",
		}, &Options{})

		require.NoError(t, err)
		assert.Equal(t, "struct", p.Type)
		assert.Equal(t, "ManifoldStruct", p.StructName)
	})

	t.Run("output category", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "resultRGB", Type: "color", IsOutput: true,
		}, &Options{})

		require.NoError(t, err)
		assert.Equal(t, CategoryOutput, p.Category)
	})

	t.Run("unknown type fails", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		_, err := parseOSLParam(ctx, oslquery.Param{
			Name: "weird", Type: "closure",
		}, &Options{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), `param "weird" has invalid type: "closure"`)
	})
}

func TestParseOSLParam_OptionsAndPresets(t *testing.T) {
	t.Parallel()

	t.Run("options evaluate their values", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "mode", Type: "int",
			Metadata: []oslquery.Metadatum{
				meta("options", cty.StringVal("One:1|Two:2|free")),
			},
		}, &Options{})

		require.NoError(t, err)
		require.NotNil(t, p.Options)
		assert.Equal(t, []string{"One", "Two", "free"}, p.Options.Keys())
		one, _ := p.Options.Get("One")
		assert.True(t, cty.NumberIntVal(1).RawEquals(one), "got %#v", one)
		free, _ := p.Options.Get("free")
		assert.True(t, cty.StringVal("free").RawEquals(free), "got %#v", free)
	})

	t.Run("color presets parse component lists", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "tint", Type: "color",
			Metadata: []oslquery.Metadatum{
				meta("presets", cty.StringVal("bright:1 1 1|dark:0 0 0")),
			},
		}, &Options{})

		require.NoError(t, err)
		require.NotNil(t, p.Presets)
		bright, ok := p.Presets.Get("bright")
		require.True(t, ok)
		want := cty.TupleVal([]cty.Value{
			cty.NumberFloatVal(1), cty.NumberFloatVal(1), cty.NumberFloatVal(1),
		})
		assert.True(t, want.RawEquals(bright), "got %#v", bright)
	})

	t.Run("malformed preset fails", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		_, err := parseOSLParam(ctx, oslquery.Param{
			Name: "tint", Type: "color",
			Metadata: []oslquery.Metadatum{
				meta("presets", cty.StringVal("brightwithoutvalue")),
			},
		}, &Options{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed preset")
	})

	t.Run("widget defaults when absent", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{Name: "gain", Type: "float"}, &Options{})

		require.NoError(t, err)
		assert.Equal(t, "default", p.Widget)
	})
}

func TestParseOSLParam_CondVis(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	var got []string
	build := func(ops *ordered.Map[cty.Value]) []string {
		got = ops.Keys()
		return []string{"enableFuzz"}
	}

	p, err := parseOSLParam(ctx, oslquery.Param{
		Name: "fuzzGain", Type: "float",
		Metadata: []oslquery.Metadatum{
			meta("conditionalVisOp", cty.StringVal("equalTo")),
			meta("conditionalVisPath", cty.StringVal("../enableFuzz")),
			meta("conditionalVisValue", cty.StringVal("1")),
		},
	}, &Options{BuildCondVis: build})

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"conditionalVisOp", "conditionalVisPath", "conditionalVisValue"}, got)
	// Paths keep their full form in this dialect.
	path, _ := p.CondVisOps.Get("conditionalVisPath")
	assert.True(t, cty.StringVal("../enableFuzz").RawEquals(path), "got %#v", path)
	val, _ := p.CondVisOps.Get("conditionalVisValue")
	assert.True(t, cty.NumberIntVal(1).RawEquals(val), "got %#v", val)
	assert.Equal(t, []string{"enableFuzz"}, p.TriggerParams)
}

func TestParseOSLParam_Optionals(t *testing.T) {
	t.Parallel()

	t.Run("numeric metadata lands typed", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "gain", Type: "float", Default: cty.NumberFloatVal(0.5),
			Metadata: []oslquery.Metadatum{
				{Name: "min", Type: "float", Default: cty.NumberFloatVal(0)},
				{Name: "lockgeom", Type: "int", Default: cty.NumberIntVal(0)},
			},
		}, &Options{})

		require.NoError(t, err)
		assert.True(t, cty.NumberFloatVal(0).RawEquals(p.Min))
		require.NotNil(t, p.Lockgeom)
		assert.False(t, *p.Lockgeom)
		// min without max infers a soft slider maximum.
		assert.True(t, cty.NumberFloatVal(1).RawEquals(p.SliderMax), "got %#v", p.SliderMax)
	})

	t.Run("vstruct tag flags the param", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "utilityPattern", Type: "float",
			Metadata: []oslquery.Metadatum{
				meta("tag", cty.StringVal("vstruct")),
			},
		}, &Options{})

		require.NoError(t, err)
		assert.Equal(t, "vstruct", p.Tag)
		assert.True(t, p.Vstruct)
	})

	t.Run("duplicate metadata keeps first position last value", func(t *testing.T) {
		t.Parallel()
		ctx, _ := testutil.Context(t)

		p, err := parseOSLParam(ctx, oslquery.Param{
			Name: "gain", Type: "float",
			Metadata: []oslquery.Metadatum{
				meta("label", cty.StringVal("first")),
				meta("help", cty.StringVal("text")),
				meta("label", cty.StringVal("second")),
			},
		}, &Options{})

		require.NoError(t, err)
		label, ok := p.Extra.Get("label")
		require.True(t, ok)
		assert.True(t, cty.StringVal("second").RawEquals(label))
	})
}
