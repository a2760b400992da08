package library_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nodedesc/internal/desc"
	"github.com/vk/nodedesc/internal/library"
	"github.com/vk/nodedesc/internal/oslquery"
	"github.com/vk/nodedesc/internal/testutil"
)

type failingQuerier struct{}

func (failingQuerier) Query(context.Context, string) (*oslquery.Shader, error) {
	return nil, errors.New("exit status 1")
}

func argsSrc(nodeType string) string {
	return `<args format="1.0">
	<shaderType><tag value="` + nodeType + `"/></shaderType>
	<param name="gain" type="float" default="0.5"/>
</args>`
}

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx, logs := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"PxrOne.args":         argsSrc("bxdf"),
		"dup/PxrOne.args":     argsSrc("pattern"),
		"sub/PxrTwo.json":     `{"$schema": "rmanNodeSchema.json", "name": "PxrTwo", "node_type": "pattern", "rman_node_type": "PxrTwo"}`,
		"rmanNodeSchema.json": `{"$schema": "http://json-schema.org/schema#"}`,
		"bad.json":            `{"$schema": "rmanNodeSchema.json", "name": "bad"}`,
		"notes.txt":           "not a description",
	})

	lib, err := library.Load(ctx, []string{dir}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, []string{"PxrOne", "PxrTwo"}, lib.Names())

	// The later PxrOne definition replaced the earlier one.
	one, ok := lib.Get("PxrOne")
	require.True(t, ok)
	assert.Equal(t, "pattern", one.NodeType)
	assert.Contains(t, logs.String(), "Duplicate node name, keeping the later definition.")

	assert.Equal(t, library.Stats{Parsed: 3, Ignored: 1, Failed: 1}, lib.Stats())
	assert.Contains(t, logs.String(), "Failed to parse node description.")
	assert.Contains(t, logs.String(), "Node description library loaded.")
}

func TestLoadSkipsUnpopulated(t *testing.T) {
	t.Parallel()
	ctx, logs := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"PxrNoise.oso": "OpenShadingLanguage 1.00\n",
	})

	lib, err := library.Load(ctx, []string{dir},
		&desc.Options{OSL: failingQuerier{}})

	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
	assert.Equal(t, library.Stats{Skipped: 1}, lib.Stats())
	assert.Contains(t, logs.String(), "Skipping unpopulated description.")
}

func TestLoadMergesSearchPaths(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	dirA := testutil.WriteFiles(t, map[string]string{"PxrMix.args": argsSrc("bxdf")})
	dirB := testutil.WriteFiles(t, map[string]string{
		"PxrMix.json": `{"$schema": "rmanNodeSchema.json", "name": "PxrMix", "node_type": "pattern", "rman_node_type": "PxrMix"}`,
		"PxrAdd.args": argsSrc("pattern"),
	})

	lib, err := library.Load(ctx, []string{dirA, dirB}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"PxrMix", "PxrAdd"}, lib.Names())
	mix, _ := lib.Get("PxrMix")
	assert.Equal(t, desc.KindJSON, mix.ParsedDataKind())
}

func TestLoadMissingRoot(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	_, err := library.Load(ctx, []string{"/definitely/not/here"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning /definitely/not/here")
}

func TestLoadGetMissing(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{"PxrOne.args": argsSrc("bxdf")})

	lib, err := library.Load(ctx, []string{dir}, nil)

	require.NoError(t, err)
	_, ok := lib.Get("PxrMissing")
	assert.False(t, ok)
}
