package koanfsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	settings "github.com/goliatone/go-jsonapi-settings"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestSourceResolvesFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonapi.yaml")
	writeFile(t, path, "JSON_API_FORMAT_FIELD_NAMES: dasherize\nother:\n  nested: 1\n")

	source, err := New(path)
	require.NoError(t, err)

	resolver := settings.NewJSONAPI(source)
	defer resolver.Close()

	got, err := resolver.Get(settings.FormatFieldNames)
	require.NoError(t, err)
	require.Equal(t, "dasherize", got)

	got, err = resolver.Get(settings.FormatTypes)
	require.NoError(t, err)
	require.Equal(t, false, got)
}

func TestReloadPublishesChangesToResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonapi.yaml")
	writeFile(t, path, "JSON_API_FORMAT_FIELD_NAMES: dasherize\n")

	source, err := New(path)
	require.NoError(t, err)
	resolver := settings.NewJSONAPI(source)
	defer resolver.Close()

	_, err = resolver.Get(settings.FormatFieldNames)
	require.NoError(t, err)

	writeFile(t, path, "JSON_API_PLURALIZE_TYPES: true\n")
	changes, err := source.Reload()
	require.NoError(t, err)
	require.Equal(t, []settings.Change{
		{Key: "JSON_API_FORMAT_FIELD_NAMES"},
		{Key: "JSON_API_PLURALIZE_TYPES", Value: true},
	}, changes)

	got, err := resolver.Get(settings.FormatFieldNames)
	require.NoError(t, err)
	require.Equal(t, false, got)

	plural, err := resolver.Bool(settings.PluralizeTypes)
	require.NoError(t, err)
	require.True(t, plural)
}

func TestReloadKeepsPreviousValuesOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonapi.yaml")
	writeFile(t, path, "JSON_API_FORMAT_TYPES: camelize\n")

	source, err := New(path)
	require.NoError(t, err)

	writeFile(t, path, "JSON_API_FORMAT_TYPES: [unterminated\n")
	_, err = source.Reload()
	require.Error(t, err)

	value, ok := source.Read("JSON_API_FORMAT_TYPES")
	require.True(t, ok)
	require.Equal(t, "camelize", value)
}

func TestNewFailsForMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCloseWithoutWatchIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonapi.yaml")
	writeFile(t, path, "JSON_API_FORMAT_TYPES: camelize\n")

	source, err := New(path)
	require.NoError(t, err)
	require.NoError(t, source.Close())
	require.NoError(t, source.Close())
}

func TestWatchPublishesFileRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonapi.yaml")
	writeFile(t, path, "JSON_API_FORMAT_TYPES: camelize\n")

	source, err := New(path)
	require.NoError(t, err)
	resolver := settings.NewJSONAPI(source)
	defer resolver.Close()

	got, err := resolver.Get(settings.FormatTypes)
	require.NoError(t, err)
	require.Equal(t, "camelize", got)

	require.NoError(t, source.Watch())
	writeFile(t, path, "JSON_API_FORMAT_TYPES: dasherize\n")

	require.Eventually(t, func() bool {
		got, err := resolver.Get(settings.FormatTypes)
		return err == nil && got == "dasherize"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, source.Close())
	require.NoError(t, source.Close())
}
