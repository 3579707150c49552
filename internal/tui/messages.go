package tui

import "github.com/mark3labs/scriptmatch/internal/store"

// Action names carried by ActionDoneMsg.
const (
	ActionAnalyze  = "analyze"
	ActionGenerate = "generate"
	ActionKeywords = "keywords"
)

// ActionDoneMsg is sent when a wizard action that may call the model returns.
type ActionDoneMsg struct {
	Action string
	Err    error
	// Seq identifies the run; a reset makes earlier runs stale.
	Seq int
}

// StoreChangedMsg is sent when the settings store reports a write.
type StoreChangedMsg struct {
	Change store.Change
}

// FileSelectedMsg is sent when a file is picked.
type FileSelectedMsg struct {
	Path    string
	Purpose PickPurpose
}

// EditedMsg is sent when the external editor returns.
type EditedMsg struct {
	Content string
	Err     error
}
