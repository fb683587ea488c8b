// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Document is an opaque binary blob plus the filename it is uploaded under.
type Document struct {
	Name string
	Data []byte
}

// Size returns the document size in bytes.
func (d Document) Size() int64 {
	return int64(len(d.Data))
}

// ContentType sniffs the document bytes, e.g. "application/pdf".
func (d Document) ContentType() string {
	return http.DetectContentType(d.Data)
}

// LoadDocument reads path into a Document. A maxBytes of zero disables the
// size check; an empty extensions list accepts any file.
func LoadDocument(path string, maxBytes int64, extensions []string) (Document, error) {
	if !hasExtension(path, extensions) {
		return Document{}, errors.Wrapf(ErrUnsupportedDocument, "%s (expected %s)",
			filepath.Base(path), strings.Join(extensions, ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "stat document")
	}
	if info.IsDir() {
		return Document{}, errors.Errorf("%s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Document{}, errors.Wrapf(ErrDocumentTooLarge, "%s is %d bytes (limit %d)",
			filepath.Base(path), info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "read document")
	}
	if len(data) == 0 {
		return Document{}, errors.Wrap(ErrEmptyDocument, filepath.Base(path))
	}

	return Document{Name: filepath.Base(path), Data: data}, nil
}

func hasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
