// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the building blocks of the chat screen: the
// header, turn bubbles, the status bar and the blocking notice overlay.
//
// Components are plain values configured through fields and rendered with
// View. They hold no state beyond what they draw.
package components
