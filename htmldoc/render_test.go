package htmldoc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/pdf2md/model"
)

func TestRenderString(t *testing.T) {
	blocks := []model.Block{
		model.Heading(1, "Title"),
		model.Paragraph("Body with <tags> & ampersands."),
		model.BlankSeparator(),
		model.Heading(3, "Sub"),
	}
	got, err := RenderString(blocks, Head{Title: "Doc", Meta: map[string]string{"author": "Ann"}})
	if err != nil {
		t.Fatalf("RenderString() error = %v", err)
	}

	wants := []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		`<meta charset="utf-8"/>`,
		"<title>Doc</title>",
		`<meta name="author" content="Ann"/>`,
		"<h1>Title</h1>",
		"<p>Body with &lt;tags&gt; &amp; ampersands.</p>",
		"<h3>Sub</h3>",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<hr") {
		t.Error("separators should not render")
	}
}

func TestRenderDeterministic(t *testing.T) {
	blocks := []model.Block{model.Heading(2, "A"), model.Paragraph("b")}
	head := Head{Meta: map[string]string{"b": "2", "a": "1", "c": "3"}}
	first, err := RenderString(blocks, head)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, _ := RenderString(blocks, head)
		if got != first {
			t.Fatalf("render %d differs", i)
		}
	}
	if a, c := strings.Index(first, `name="a"`), strings.Index(first, `name="c"`); a > c {
		t.Error("meta tags should be sorted by name")
	}
}

func TestHeadingLevelClamp(t *testing.T) {
	blocks := []model.Block{{Kind: model.BlockHeading, Level: 9, Text: "deep"}}
	got, err := RenderString(blocks, Head{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<h6>deep</h6>") {
		t.Errorf("got %s", got)
	}
	if strings.Contains(got, "<title>") {
		t.Error("empty title should be omitted")
	}
}

func TestRoundTrip(t *testing.T) {
	blocks := []model.Block{
		model.Heading(1, "Introduction"),
		model.Paragraph("First paragraph & more."),
		model.Heading(2, "Details"),
		model.Paragraph("Second paragraph."),
	}
	meta := model.DocumentMetadata{Title: "Guide", Author: "Ann", Subject: "Testing"}
	out, err := RenderString(blocks, HeadFromMetadata(meta))
	if err != nil {
		t.Fatal(err)
	}

	got, head, err := parseHTML(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parseHTML() error = %v", err)
	}
	if !reflect.DeepEqual(got, blocks) {
		t.Errorf("parseHTML() blocks = %v, want %v", got, blocks)
	}
	if head.Title != "Guide" || head.Meta["author"] != "Ann" || head.Meta["description"] != "Testing" {
		t.Errorf("parseHTML() head = %+v", head)
	}
}

func TestParseSkipsNonContent(t *testing.T) {
	in := `<html><body><script>var x = 1;</script><div><h2> Nested
	heading </h2><p></p><p>text</p></div></body></html>`
	got, _, err := parseHTML(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Block{model.Heading(2, "Nested heading"), model.Paragraph("text")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseHTML() = %v, want %v", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	if err := Render(failingWriter{}, []model.Block{model.Paragraph("x")}, Head{}); err == nil {
		t.Error("Render() error = nil, want an error")
	}
}
