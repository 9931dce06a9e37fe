package segment

import "strings"

// Assemble builds a Document from classified sections in document order.
//
// A section with a known block is appended to that block and moves the
// fallback cursor forward to at least the block's position. Continuations
// inherit the most recently declared block; those that precede any heading
// (or follow a heading naming a block outside the order) are placed in the
// first still-empty block at or after the cursor, or in the last block when
// none is left. Content is only ever appended, never dropped or reordered.
func Assemble(sections []Section, cfg Config) Document {
	doc := NewDocument(cfg.order)
	if doc.Len() == 0 {
		return doc
	}

	cursor := 0
	for _, s := range mergeAdjacent(inheritBlocks(sections)) {
		if s.Text == "" {
			continue
		}

		target := s.Block
		if idx := indexOf(doc.order, target); target != "" && idx >= 0 {
			cursor = max(cursor, idx)
		} else {
			target, cursor = nextEmpty(doc, cursor)
		}
		doc.append(target, s.Text)
	}
	return doc
}

// inheritBlocks labels every continuation with the block of the last
// heading seen before it.
func inheritBlocks(sections []Section) []Section {
	out := make([]Section, len(sections))
	active := ""
	for i, s := range sections {
		if s.Block != "" {
			active = s.Block
		}
		out[i] = Section{Block: active, Text: s.Text}
	}
	return out
}

// mergeAdjacent joins consecutive sections of the same block. Unlabelled
// sections stay separate so each one goes through fallback on its own.
func mergeAdjacent(sections []Section) []Section {
	var merged []Section
	for _, s := range sections {
		last := len(merged) - 1
		if last >= 0 && s.Block != "" && merged[last].Block == s.Block {
			merged[last].Text = strings.TrimSpace(merged[last].Text + "\n\n" + s.Text)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// nextEmpty picks the first empty block at or after start, or the last
// block when every remaining one already has content.
func nextEmpty(doc Document, start int) (string, int) {
	for i := start; i < len(doc.order); i++ {
		if doc.text[doc.order[i]] == "" {
			return doc.order[i], i
		}
	}
	last := len(doc.order) - 1
	return doc.order[last], last
}

func indexOf(order []string, block string) int {
	for i, name := range order {
		if name == block {
			return i
		}
	}
	return -1
}
