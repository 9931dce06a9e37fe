// Package audit flags story blocks left empty after segmentation.
package audit

import "strings"

// EmptyBlockNote is recorded for every block without content.
const EmptyBlockNote = "Empty block – requires manual fact-checking."

// Blocks is the read side of a parsed document.
type Blocks interface {
	Get(block string) string
}

// Result is the completeness verdict for one story.
type Result struct {
	MissingBlocks []string          `json:"missing_blocks"`
	NeedsReview   bool              `json:"needs_review"`
	Notes         map[string]string `json:"notes"`
}

// Assess lists the required blocks whose content is empty or whitespace,
// in the order given. Unknown blocks count as empty.
func Assess(doc Blocks, required []string) Result {
	res := Result{
		MissingBlocks: []string{},
		Notes:         map[string]string{},
	}
	for _, block := range required {
		if strings.TrimSpace(doc.Get(block)) != "" {
			continue
		}
		res.MissingBlocks = append(res.MissingBlocks, block)
		res.Notes[block] = EmptyBlockNote
	}
	res.NeedsReview = len(res.MissingBlocks) > 0
	return res
}
