package notion

import (
	"strings"

	"rolodex/internal/contact"
)

// richTextLimit is the Notion rich text span ceiling. Longer paragraphs are
// split on the nearest whitespace boundary below the limit.
const richTextLimit = 2000

// buildChildren lays out the page body: dossier first, then meeting notes,
// then the verbatim original note.
func buildChildren(rec *contact.Record) []any {
	var blocks []any
	if rec.DossierText != "" {
		blocks = append(blocks, heading(2, "Dossier"))
		blocks = append(blocks, MarkdownBlocks(rec.DossierText)...)
	}
	if rec.MeetingNotes != "" || rec.Event != "" || rec.FollowUp != "" {
		blocks = append(blocks, heading(2, "Meeting Notes"))
		if rec.Event != "" {
			blocks = append(blocks, paragraphChunks("Met at: "+rec.Event)...)
		}
		if rec.MeetingNotes != "" {
			blocks = append(blocks, paragraphChunks(rec.MeetingNotes)...)
		}
		if rec.FollowUp != "" {
			blocks = append(blocks, paragraphChunks("Follow up: "+rec.FollowUp)...)
		}
	}
	if rec.Enrichment != nil && rec.Enrichment.ConfidenceNote != "" {
		blocks = append(blocks, heading(3, "Enrichment"))
		blocks = append(blocks, paragraphChunks(rec.Enrichment.ConfidenceNote)...)
	}
	if rec.RawNote != "" {
		blocks = append(blocks, heading(3, "Original Note"))
		blocks = append(blocks, paragraphChunks(rec.RawNote)...)
	}
	return blocks
}

// MarkdownBlocks converts the subset of markdown the dossier synthesizer
// emits into Notion blocks: #/##/### headings, a standalone **bold** line as
// a small heading, - or * bullets, and paragraphs with inline bold spans.
func MarkdownBlocks(markdown string) []any {
	var blocks []any
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, heading(3, strings.TrimPrefix(line, "### ")))
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, heading(2, strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, heading(1, strings.TrimPrefix(line, "# ")))
		case isBoldLine(line):
			blocks = append(blocks, heading(3, strings.Trim(line, "*")))
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			blocks = append(blocks, bullet(line[2:]))
		default:
			blocks = append(blocks, paragraphChunks(line)...)
		}
	}
	return blocks
}

// isBoldLine reports whether the whole line is a single **bold** span, which
// the dossier prompt uses as a section header.
func isBoldLine(line string) bool {
	return strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") &&
		len(line) > 4 && !strings.Contains(line[2:len(line)-2], "**")
}

func heading(level int, text string) map[string]any {
	kind := "heading_1"
	switch level {
	case 2:
		kind = "heading_2"
	case 3:
		kind = "heading_3"
	}
	var spans []any
	for _, piece := range spanPieces(strings.TrimSpace(text)) {
		spans = append(spans, textSpan(piece, false))
	}
	return map[string]any{
		"object": "block",
		"type":   kind,
		kind: map[string]any{
			"rich_text": spans,
		},
	}
}

func bullet(text string) map[string]any {
	return map[string]any{
		"object": "block",
		"type":   "bulleted_list_item",
		"bulleted_list_item": map[string]any{
			"rich_text": inlineSpans(text),
		},
	}
}

// paragraphChunks splits text that exceeds the rich text limit into multiple
// paragraph blocks, breaking on whitespace where possible.
func paragraphChunks(text string) []any {
	var blocks []any
	for _, chunk := range splitChunks(text, richTextLimit) {
		blocks = append(blocks, map[string]any{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]any{
				"rich_text": inlineSpans(chunk),
			},
		})
	}
	return blocks
}

func splitChunks(text string, limit int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	var chunks []string
	for len(runes) > limit {
		cut := limit
		if idx := lastSpace(runes[:limit]); idx > limit/2 {
			cut = idx
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[:cut])))
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ' ', '\t', '\n':
			return i
		}
	}
	return -1
}

// spanPieces keeps a rich text span under the content limit. Spans within
// the limit pass through untouched so inline spacing survives.
func spanPieces(part string) []string {
	if len([]rune(part)) <= richTextLimit {
		return []string{part}
	}
	return splitChunks(part, richTextLimit)
}

// inlineSpans splits a line on **bold** markers into alternating plain and
// bold rich text spans.
func inlineSpans(text string) []any {
	parts := strings.Split(text, "**")
	if len(parts) < 3 {
		var spans []any
		for _, piece := range spanPieces(text) {
			spans = append(spans, textSpan(piece, false))
		}
		return spans
	}
	var spans []any
	for i, part := range parts {
		if part == "" {
			continue
		}
		for _, piece := range spanPieces(part) {
			spans = append(spans, textSpan(piece, i%2 == 1))
		}
	}
	if len(spans) == 0 {
		return []any{textSpan("", false)}
	}
	return spans
}

func textSpan(text string, bold bool) map[string]any {
	span := map[string]any{
		"type": "text",
		"text": map[string]any{"content": text},
	}
	if bold {
		span["annotations"] = map[string]any{"bold": true}
	}
	return span
}
