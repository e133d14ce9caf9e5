package notion

import (
	"strings"
	"testing"
)

func TestMarkdownBlocksHeadingsAndBullets(t *testing.T) {
	markdown := strings.Join([]string{
		"## Background",
		"Sarah leads engineering at Acme.",
		"**Connection Points**",
		"- Met at GopherCon",
		"* Interested in embedded systems",
	}, "\n")

	blocks := MarkdownBlocks(markdown)
	if len(blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(blocks))
	}

	types := make([]string, len(blocks))
	for i, block := range blocks {
		types[i] = block.(map[string]any)["type"].(string)
	}
	want := []string{"heading_2", "paragraph", "heading_3", "bulleted_list_item", "bulleted_list_item"}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("block %d: got type %q, want %q", i, types[i], want[i])
		}
	}
}

func TestMarkdownBlocksInlineBold(t *testing.T) {
	blocks := MarkdownBlocks("She is the **VP of Engineering** at Acme.")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	paragraph := blocks[0].(map[string]any)["paragraph"].(map[string]any)
	spans := paragraph["rich_text"].([]any)
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	boldSpan := spans[1].(map[string]any)
	if boldSpan["annotations"] == nil {
		t.Fatal("middle span should be bold")
	}
	content := boldSpan["text"].(map[string]any)["content"].(string)
	if content != "VP of Engineering" {
		t.Fatalf("unexpected bold content %q", content)
	}
}

func TestSplitChunksRespectsLimit(t *testing.T) {
	long := strings.Repeat("word ", 1000)
	chunks := splitChunks(long, richTextLimit)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d chars, got %d", len(long), len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > richTextLimit {
			t.Fatalf("chunk %d exceeds limit: %d chars", i, len(chunk))
		}
		if strings.HasPrefix(chunk, " ") || strings.HasSuffix(chunk, " ") {
			t.Fatalf("chunk %d not trimmed: %q", i, chunk[:20])
		}
	}
	if rejoined := strings.Join(chunks, " "); rejoined != strings.TrimSpace(long) {
		t.Fatal("chunks lost content")
	}
}

func TestSplitChunksNoWhitespace(t *testing.T) {
	long := strings.Repeat("x", richTextLimit+10)
	chunks := splitChunks(long, richTextLimit)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != richTextLimit {
		t.Fatalf("first chunk is %d chars, want %d", len(chunks[0]), richTextLimit)
	}
}

func TestSplitChunksEmpty(t *testing.T) {
	if chunks := splitChunks("   ", richTextLimit); chunks != nil {
		t.Fatalf("expected nil for blank input, got %v", chunks)
	}
}

func TestSplitChunksKeepsMultibyteRunesIntact(t *testing.T) {
	long := strings.Repeat("é", richTextLimit+10)
	chunks := splitChunks(long, richTextLimit)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk, "é") || !strings.HasSuffix(chunk, "é") {
			t.Fatalf("chunk %d split a rune mid-sequence", i)
		}
	}
	if got := len([]rune(chunks[0])); got != richTextLimit {
		t.Fatalf("first chunk is %d runes, want %d", got, richTextLimit)
	}
}

func TestLongBulletIsChunkedWithinLimit(t *testing.T) {
	blocks := MarkdownBlocks("- " + strings.Repeat("detail ", 600))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 bullet block, got %d", len(blocks))
	}
	item := blocks[0].(map[string]any)["bulleted_list_item"].(map[string]any)
	spans := item["rich_text"].([]any)
	if len(spans) < 2 {
		t.Fatalf("expected the bullet text split into multiple spans, got %d", len(spans))
	}
	for i, span := range spans {
		content := span.(map[string]any)["text"].(map[string]any)["content"].(string)
		if len([]rune(content)) > richTextLimit {
			t.Fatalf("span %d exceeds the rich text limit", i)
		}
	}
}

func TestLongHeadingIsChunkedWithinLimit(t *testing.T) {
	blocks := MarkdownBlocks("## " + strings.Repeat("topic ", 500))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 heading block, got %d", len(blocks))
	}
	spans := blocks[0].(map[string]any)["heading_2"].(map[string]any)["rich_text"].([]any)
	if len(spans) < 2 {
		t.Fatalf("expected the heading text split into multiple spans, got %d", len(spans))
	}
	for i, span := range spans {
		content := span.(map[string]any)["text"].(map[string]any)["content"].(string)
		if len([]rune(content)) > richTextLimit {
			t.Fatalf("span %d exceeds the rich text limit", i)
		}
	}
}
