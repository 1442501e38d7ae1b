package model

import "fmt"

// BlockKind identifies the variant of a Block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockSeparator
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "Paragraph"
	case BlockHeading:
		return "Heading"
	case BlockSeparator:
		return "BlankSeparator"
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// MaxHeadingLevel is the deepest heading level.
const MaxHeadingLevel = 6

// Block is one classified unit of output. Level is set for headings only;
// separators carry no text.
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
}

// Heading returns a heading block. Levels are clamped to 1..6.
func Heading(level int, text string) Block {
	if level < 1 {
		level = 1
	}
	if level > MaxHeadingLevel {
		level = MaxHeadingLevel
	}
	return Block{Kind: BlockHeading, Level: level, Text: text}
}

// Paragraph returns a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// BlankSeparator returns a separator block.
func BlankSeparator() Block {
	return Block{Kind: BlockSeparator}
}

// IsHeading reports whether b is a heading.
func (b Block) IsHeading() bool { return b.Kind == BlockHeading }

func (b Block) String() string {
	switch b.Kind {
	case BlockHeading:
		return fmt.Sprintf("H%d %q", b.Level, b.Text)
	case BlockSeparator:
		return "---"
	}
	return fmt.Sprintf("P %q", b.Text)
}
