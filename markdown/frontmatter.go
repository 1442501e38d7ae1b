package markdown

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/tsawler/pdf2md/model"
)

// FrontMatter is the YAML header written before the Markdown body.
type FrontMatter struct {
	Title    string   `yaml:"title,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Subject  string   `yaml:"subject,omitempty"`
	Producer string   `yaml:"producer,omitempty"`
	Created  string   `yaml:"created,omitempty"`
	Pages    int      `yaml:"pages"`
	Sections []string `yaml:"sections,omitempty"`
}

// NewFrontMatter copies the fields of meta that have a value.
func NewFrontMatter(meta model.DocumentMetadata) FrontMatter {
	fm := FrontMatter{
		Title:    meta.Title,
		Author:   meta.Author,
		Subject:  meta.Subject,
		Producer: meta.Producer,
		Pages:    meta.PageCount,
		Sections: meta.Sections,
	}
	if !meta.Created.IsZero() {
		fm.Created = meta.Created.Format(time.RFC3339)
	}
	return fm
}

// Render returns the front matter framed by "---" lines and followed by
// a blank line.
func (f FrontMatter) Render() (string, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("front matter: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(data)
	sb.WriteString("---\n\n")
	return sb.String(), nil
}

// Document serializes blocks, prefixed with front matter when fm is not
// nil.
func Document(blocks []model.Block, fm *FrontMatter) (string, error) {
	body := Serialize(blocks)
	if fm == nil {
		return body, nil
	}
	header, err := fm.Render()
	if err != nil {
		return "", err
	}
	return header + body, nil
}
