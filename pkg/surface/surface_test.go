package surface

import (
	"os"
	"strings"
	"testing"

	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/manifest"
	"github.com/driftscope/driftscope/pkg/review"
)

func testGraph() (*lineage.Graph, *review.Summary) {
	base := &manifest.Snapshot{
		ID: "base",
		Nodes: map[string]*manifest.NodeMetadata{
			"a": {UniqueID: "a", Name: "stg_orders", Checksum: "1", ResourceType: "model"},
			"b": {UniqueID: "b", Name: "orders", Checksum: "2", ResourceType: "model"},
		},
		ParentMap: map[string][]string{"a": {}, "b": {"a"}},
	}
	cur := &manifest.Snapshot{
		ID: "cur",
		Nodes: map[string]*manifest.NodeMetadata{
			"a": {UniqueID: "a", Name: "stg_orders", Checksum: "1x", ResourceType: "model"},
			"b": {UniqueID: "b", Name: "orders", Checksum: "2", ResourceType: "model"},
			"c": {UniqueID: "c", Name: "order_items", Checksum: "3", ResourceType: "model"},
		},
		ParentMap: map[string][]string{"a": {}, "b": {"a"}, "c": {"a"}},
	}
	g := lineage.Build(base, cur)
	return g, review.Summarize(g)
}

func TestTerminalRender(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	g, summary := testGraph()

	var sb strings.Builder
	r := &TerminalRenderer{}
	if err := r.Render(&sb, g, summary); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"Added:", "+ order_items",
		"Modified:", "~ stg_orders",
		"Impacted:", "! orders",
		"Hotspots:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("output contains ANSI escapes despite NO_COLOR")
	}
}

func TestTerminalRenderColored(t *testing.T) {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR set in environment")
	}
	g, summary := testGraph()

	var sb strings.Builder
	r := &TerminalRenderer{}
	if err := r.Render(&sb, g, summary); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(sb.String(), colorGreen) {
		t.Error("expected green escape for added nodes")
	}
}

func TestMarkdownSummary(t *testing.T) {
	g, summary := testGraph()

	out := BuildMarkdownSummary(g, summary)

	for _, want := range []string{
		"## Driftscope: Grade",
		"| Added Nodes | 1 |",
		"| Modified Nodes | 1 |",
		"| Impacted Nodes | 1 |",
		"### Hotspots",
		"| model |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if got := wrapText("", 10); got != nil {
		t.Errorf("wrapText(\"\") = %v, want nil", got)
	}
}
