package htmldoc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/pdf2md/model"
)

// parseHTML reads a rendered document back into blocks. Headings and
// paragraphs are kept; everything else contributes nothing. Adjacent
// blocks are not separated because HTML carries no blank lines.
func parseHTML(r io.Reader) ([]model.Block, Head, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, Head{}, fmt.Errorf("parsing HTML: %w", err)
	}

	head := Head{Meta: map[string]string{}}
	if h := findElement(doc, "head"); h != nil {
		readHead(h, &head)
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	var blocks []model.Block
	collectBlocks(body, &blocks)
	return blocks, head, nil
}

func readHead(n *html.Node, head *Head) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			head.Title = strings.TrimSpace(textContent(c))
		case "meta":
			name, content := "", ""
			for _, attr := range c.Attr {
				switch attr.Key {
				case "name", "property":
					name = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if name != "" && content != "" {
				head.Meta[name] = content
			}
		}
	}
}

func collectBlocks(n *html.Node, blocks *[]model.Block) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		case "p":
			if text := normalizeSpace(textContent(n)); text != "" {
				*blocks = append(*blocks, model.Paragraph(text))
			}
			return
		}
		if level := headingLevel(n.Data); level > 0 {
			if text := normalizeSpace(textContent(n)); text != "" {
				*blocks = append(*blocks, model.Heading(level, text))
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, blocks)
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// headingLevel returns 1 to 6 for h1 to h6 and 0 otherwise.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' {
		if n, err := strconv.Atoi(tag[1:]); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 0
}
