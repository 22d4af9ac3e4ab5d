package i18n_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/i18n"
	"github.com/rezonia/invoice-generator/internal/model"
)

func TestDefault_CompleteForEveryLanguage(t *testing.T) {
	catalog := i18n.Default()
	assert.Equal(t, model.Languages, catalog.Languages())

	for _, lang := range model.Languages {
		t.Run(string(lang), func(t *testing.T) {
			labels, err := catalog.Labels(lang, i18n.AllKeys...)
			require.NoError(t, err)
			require.NoError(t, labels.Require(i18n.AllKeys...))
			for _, key := range i18n.AllKeys {
				assert.NotEmpty(t, labels.Get(key), key)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	catalog := i18n.Default()

	text, err := catalog.Lookup(model.LanguageDE, i18n.KeyInvoice)
	require.NoError(t, err)
	assert.Equal(t, "Rechnung", text)

	text, err = catalog.Lookup(model.LanguageFR, i18n.KeySubtotal)
	require.NoError(t, err)
	assert.Equal(t, "Sous-total", text)
}

func TestLabels_MissingKeyFailsClosed(t *testing.T) {
	catalog := i18n.New(map[model.Language]map[string]string{
		model.LanguageEN: {i18n.KeyInvoice: "Invoice", i18n.KeySubtotal: "   "},
	})

	_, err := catalog.Labels(model.LanguageEN, i18n.KeyInvoice, i18n.KeyTotal)
	var missing *model.MissingTranslationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, i18n.KeyTotal, missing.Key)
	assert.Equal(t, model.LanguageEN, missing.Language)

	_, err = catalog.Labels(model.LanguageEN, i18n.KeySubtotal)
	require.ErrorAs(t, err, &missing, "blank text is missing")

	_, err = catalog.Labels(model.LanguageIT, i18n.KeyInvoice)
	require.ErrorAs(t, err, &missing, "no fallback to another language")
}

func TestLabels_Require(t *testing.T) {
	labels, err := i18n.Default().Labels(model.LanguageEN, i18n.KeyInvoice)
	require.NoError(t, err)

	require.NoError(t, labels.Require(i18n.KeyInvoice))

	var missing *model.MissingTranslationError
	require.ErrorAs(t, labels.Require(i18n.KeyLegal), &missing)
}

func TestNew_CopiesTables(t *testing.T) {
	table := map[string]string{i18n.KeyInvoice: "Invoice"}
	catalog := i18n.New(map[model.Language]map[string]string{model.LanguageEN: table})
	table[i18n.KeyInvoice] = ""

	text, err := catalog.Lookup(model.LanguageEN, i18n.KeyInvoice)
	require.NoError(t, err)
	assert.Equal(t, "Invoice", text)
}

func TestLoad(t *testing.T) {
	catalog, err := i18n.Load(strings.NewReader(`{"EN": {"invoice": "Bill"}}`))
	require.NoError(t, err)

	text, err := catalog.Lookup(model.LanguageEN, i18n.KeyInvoice)
	require.NoError(t, err)
	assert.Equal(t, "Bill", text)

	_, err = i18n.Load(strings.NewReader(`{"pt": {"invoice": "Fatura"}}`))
	require.Error(t, err)

	_, err = i18n.Load(strings.NewReader(`not json`))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"it": {"invoice": "Fattura"}}`), 0o600))

	catalog, err := i18n.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Language{model.LanguageIT}, catalog.Languages())

	_, err = i18n.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
