package components

import (
	"github.com/vipulsaw/shiplane/internal/model"
)

// StageEntry represents a single stage for rendering.
type StageEntry struct {
	Name   string
	Result model.StageResult
}

// StageList renders the pipeline's stages with their current status.
type StageList struct {
	entries []StageEntry
}

// NewStageList constructs a stage list component in pipeline order.
func NewStageList(order []string, results map[string]model.StageResult) StageList {
	entries := make([]StageEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, StageEntry{Name: name, Result: results[name]})
	}
	return StageList{entries: entries}
}

// Entries returns the ordered stage entries.
func (s StageList) Entries() []StageEntry {
	clone := make([]StageEntry, len(s.entries))
	copy(clone, s.entries)
	return clone
}
