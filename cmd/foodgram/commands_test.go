package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/foodgram/internal/config"
	"philcali.me/foodgram/internal/exceptions"
	"philcali.me/foodgram/internal/logging"
	"philcali.me/foodgram/internal/test"
)

func run(t *testing.T, server *test.FakeFoodgram, args ...string) (string, string, error) {
	color.NoColor = true
	t.Setenv(config.EnvBaseURL, server.URL())
	t.Setenv(config.EnvToken, "token")
	t.Setenv(config.EnvTopicArn, "")
	t.Setenv(config.EnvTimeout, "")
	t.Setenv(logging.EnvLogLevel, "off")
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	server := test.NewFakeFoodgram(t, test.SampleRecipes(5), test.SampleTags())

	out, _, err := run(t, server, "list", "--limit", "2", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2, 5 recipes total")
	assert.Contains(t, out, "Recipe 3")
	assert.Contains(t, out, "Recipe 4")
	assert.NotContains(t, out, "Recipe 5")
}

func TestTags(t *testing.T) {
	server := test.NewFakeFoodgram(t, nil, test.SampleTags())

	out, _, err := run(t, server, "tags", "--tag", "dinner")
	require.NoError(t, err)
	assert.Regexp(t, `2\W+dinner\W+Dinner\W+true`, out)
	assert.Regexp(t, `1\W+breakfast\W+Breakfast\W+false`, out)
}

func TestUnknownTag(t *testing.T) {
	server := test.NewFakeFoodgram(t, test.SampleRecipes(3), test.SampleTags())

	out, _, err := run(t, server, "list", "--tag", "brunch")
	var invalid *exceptions.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), `unknown tag "brunch"`)
	assert.NotContains(t, out, "Recipe 1")
	for _, request := range server.Requests() {
		assert.NotEqual(t, "/api/recipes/", request.Path)
	}
}

func TestToggleCommands(t *testing.T) {
	server := test.NewFakeFoodgram(t, test.SampleRecipes(4), test.SampleTags())
	metricsFile := filepath.Join(t.TempDir(), "foodgram.prom")

	_, _, err := run(t, server, "favorite", "1", "3", "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.True(t, server.IsFavorite(1))
	assert.True(t, server.IsFavorite(3))
	contents, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `foodgram_collection_toggles_total{desired="true",operation="favorite",outcome="applied"} 2`)

	_, _, err = run(t, server, "cart", "2")
	require.NoError(t, err)
	assert.True(t, server.InCart(2))

	_, _, err = run(t, server, "uncart", "2")
	require.NoError(t, err)
	assert.False(t, server.InCart(2))

	failedFile := filepath.Join(t.TempDir(), "failed.prom")
	out, errOut, err := run(t, server, "favorite", "1", "--metrics-file", failedFile)
	assert.Error(t, err)
	assert.Contains(t, errOut, "Recipe already in favorites!")
	assert.Contains(t, out, "Page 1, 4 recipes total")
	contents, err = os.ReadFile(failedFile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `foodgram_collection_toggles_total{desired="true",operation="favorite",outcome="rejected"} 1`)

	_, _, err = run(t, server, "unfavorite", "abc")
	assert.ErrorContains(t, err, `invalid recipe id "abc"`)
}
