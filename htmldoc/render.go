package htmldoc

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdf2md/model"
)

// Head carries the document-level fields written into head.
type Head struct {
	Title string
	Meta  map[string]string
}

// HeadFromMetadata takes the title, author and subject of meta.
func HeadFromMetadata(meta model.DocumentMetadata) Head {
	h := Head{Title: meta.Title, Meta: map[string]string{}}
	if meta.Author != "" {
		h.Meta["author"] = meta.Author
	}
	if meta.Subject != "" {
		h.Meta["description"] = meta.Subject
	}
	if meta.Producer != "" {
		h.Meta["generator"] = meta.Producer
	}
	return h
}

// Render writes blocks as a complete HTML document.
func Render(w io.Writer, blocks []model.Block, head Head) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	if err := html.Render(w, Build(blocks, head)); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(blocks []model.Block, head Head) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, blocks, head); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Build returns the html element of the document.
func Build(blocks []model.Block, head Head) *html.Node {
	root := element(atom.Html)
	root.Attr = []html.Attribute{{Key: "lang", Val: "en"}}

	headNode := element(atom.Head)
	charset := element(atom.Meta)
	charset.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	headNode.AppendChild(charset)
	if head.Title != "" {
		title := element(atom.Title)
		title.AppendChild(textNode(head.Title))
		headNode.AppendChild(title)
	}
	for _, name := range sortedKeys(head.Meta) {
		m := element(atom.Meta)
		m.Attr = []html.Attribute{
			{Key: "name", Val: name},
			{Key: "content", Val: head.Meta[name]},
		}
		headNode.AppendChild(m)
	}
	root.AppendChild(headNode)

	body := element(atom.Body)
	for _, b := range blocks {
		text := strings.Join(strings.Fields(b.Text), " ")
		if text == "" {
			continue
		}
		var n *html.Node
		switch b.Kind {
		case model.BlockHeading:
			n = headingElement(b.Level)
		case model.BlockParagraph:
			n = element(atom.P)
		default:
			continue
		}
		n.AppendChild(textNode(text))
		body.AppendChild(n)
	}
	root.AppendChild(body)
	return root
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func headingElement(level int) *html.Node {
	if level < 1 {
		level = 1
	}
	if level > len(headingAtoms) {
		level = len(headingAtoms)
	}
	return element(headingAtoms[level-1])
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
