// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

// NoticeLevel tells the view how prominently to show a Notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// String returns the level name.
func (l NoticeLevel) String() string {
	if l == NoticeError {
		return "error"
	}
	return "info"
}

// Notice texts shown for the upload flow.
const (
	NoticeSelectDocument = "Please select a PDF first"
	NoticeUploadOK       = "PDF uploaded and processed successfully"
	NoticeUploadFailed   = "Failed to upload PDF"
)

// Notice is a blocking message the user must acknowledge.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Level == NoticeError
}
