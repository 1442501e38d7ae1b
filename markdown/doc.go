// Package markdown serializes a block sequence as Markdown.
//
// Output is deterministic: the same blocks always produce the same bytes.
// Headings become ATX headings, paragraphs are written on a single line
// and every block is separated from the next by one blank line. Markdown
// punctuation is escaped only where a renderer would otherwise treat it
// as syntax.
//
// A [FrontMatter] block built from document metadata can be prepended
// as YAML.
package markdown
