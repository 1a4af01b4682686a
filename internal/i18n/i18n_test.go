package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalogs(t *testing.T) {
	manager, err := Load("ru")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ru", "en"}, manager.Languages())

	tr := manager.Translator("ru")
	require.Equal(t, "ru", tr.Lang())
	require.Equal(t, "📝 Создать заметку", tr.T("main_menu.create_note"))
	require.Equal(t, "📋 Мои заметки", tr.T("main_menu.my_notes"))
}

func TestTranslatorFallsBackToDefaultLanguage(t *testing.T) {
	manager, err := Load("ru")
	require.NoError(t, err)

	tr := manager.Translator("de")
	require.Equal(t, "ru", tr.Lang())
	require.Equal(t, "ℹ️ Помощь", tr.T("main_menu.help"))
}

func TestTranslatorReturnsKeyForMissingEntries(t *testing.T) {
	manager, err := Load("ru")
	require.NoError(t, err)

	tr := manager.Translator("ru")
	require.Equal(t, "msg.does_not_exist", tr.T("msg.does_not_exist"))
	require.Equal(t, "", tr.T("  "))
}

func TestLoadFromFSRejectsMissingDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": &fstest.MapFile{Data: []byte("en:\n  msg:\n    hello: \"Hello\"\n")},
	}

	_, err := LoadFromFS(fsys, "ru")
	require.Error(t, err)
}

func TestLoadFromFSFlattensNestedKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"ru.yaml": &fstest.MapFile{Data: []byte("ru:\n  a:\n    b:\n      c: \"глубоко\"\n")},
	}

	manager, err := LoadFromFS(fsys, "ru")
	require.NoError(t, err)
	require.Equal(t, "глубоко", manager.Translator("ru").T("a.b.c"))
}
