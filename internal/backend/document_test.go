// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeFile(t, "Paper.PDF", pdfBytes)

	doc, err := LoadDocument(path, 1024, []string{".pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Paper.PDF", doc.Name)
	assert.Equal(t, pdfBytes, doc.Data)
	assert.Equal(t, int64(len(pdfBytes)), doc.Size())
	assert.Equal(t, "application/pdf", doc.ContentType())
}

func TestLoadDocument_Rejections(t *testing.T) {
	t.Run("wrong extension", func(t *testing.T) {
		_, err := LoadDocument(writeFile(t, "notes.txt", []byte("x")), 0, []string{".pdf"})
		assert.ErrorIs(t, err, ErrUnsupportedDocument)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := LoadDocument(writeFile(t, "big.pdf", pdfBytes), 10, []string{".pdf"})
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := LoadDocument(writeFile(t, "empty.pdf", nil), 0, []string{".pdf"})
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.pdf"), 0, nil)
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "dir.pdf")
		require.NoError(t, os.Mkdir(dir, 0o755))
		_, err := LoadDocument(dir, 0, nil)
		assert.Error(t, err)
	})
}

func TestLoadDocument_AnyExtensionWhenUnrestricted(t *testing.T) {
	doc, err := LoadDocument(writeFile(t, "notes.txt", []byte("hello")), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Name)
}
