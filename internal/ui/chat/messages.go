// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/model"
)

// AnswerMsg reports that an ask has settled. Turn is the assistant turn
// that was appended, which may be the failure text. Err is set only when the
// outcome was dropped as stale.
type AnswerMsg struct {
	Turn model.Turn
	Err  error
}

// UploadDoneMsg reports that an upload has settled.
type UploadDoneMsg struct {
	Name   string
	Notice exchange.Notice
	Err    error
}

// StateChangedMsg asks the screen to redraw from the controller.
type StateChangedMsg struct{}

// ExportDoneMsg reports the result of /export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
