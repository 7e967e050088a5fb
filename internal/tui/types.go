package tui

type stage int

const (
	stageCompose stage = iota
	stageConfirmClear
	stageExport
)

const heroTagline = "Jot a phrase, get it translated, keep it."

const (
	minViewportWidth          = 40
	minViewportHeight         = 5
	viewportHorizontalPadding = 4
	// chromeHeight counts the rows around the note list: hero, message line,
	// composer panel, status bar and the blank separators between them.
	chromeHeight = 15
)

const (
	composerPlaceholder = "Type a phrase and press Enter…"
	composerCharLimit   = 500
	emptyListMessage    = "No notes yet. Type a phrase below to add one."
	pendingText         = "..."
)
