// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles holds the colour palette and Lip Gloss styles of the chat
// screen. Colours are AdaptiveColor values so the same theme works on light
// and dark terminals.
package styles
