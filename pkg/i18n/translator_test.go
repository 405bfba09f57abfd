package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryEchoesMissingKeys(t *testing.T) {
	d := Dictionary{"beef": "Wołowina", "blank": " "}

	assert.Equal(t, "Wołowina", d.Translate("beef"))
	assert.Equal(t, "garlic", d.Translate("garlic"))
	assert.Equal(t, "blank", d.Translate("blank"))

	assert.True(t, HasTranslation(d, "beef"))
	assert.False(t, HasTranslation(d, "garlic"))
	assert.False(t, HasTranslation(nil, "beef"))

	assert.Equal(t, "Wołowina", DisplayName(d, "beef"))
	assert.Equal(t, "garlic", DisplayName(d, "garlic"))
	assert.Equal(t, "none", DisplayName(nil, "none"))
}

func TestLoadDictionary(t *testing.T) {
	empty, err := LoadDictionary("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	path := filepath.Join(t.TempDir(), "names.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"none":"Bez dodatku"}`), 0o600))
	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, "Bez dodatku", d.Translate("none"))

	_, err = LoadDictionary(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ParseDictionary([]byte(`[1,2]`))
	assert.Error(t, err)
}
