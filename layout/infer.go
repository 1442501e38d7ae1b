package layout

import (
	"strings"

	"github.com/tsawler/pdf2md/model"
)

// Inferencer turns text runs into blocks. It keeps no state between
// calls.
type Inferencer struct {
	config Config
}

// NewInferencer returns an Inferencer with DefaultConfig.
func NewInferencer() *Inferencer {
	return &Inferencer{config: DefaultConfig()}
}

// NewInferencerWithConfig returns an Inferencer with custom thresholds.
// Zero fields take their defaults.
func NewInferencerWithConfig(config Config) *Inferencer {
	return &Inferencer{config: config.withDefaults()}
}

// Config returns the thresholds in use.
func (in *Inferencer) Config() Config { return in.config }

// Infer classifies runs from the whole document, in reading order.
func (in *Inferencer) Infer(runs []model.TextRun) []model.Block {
	return in.InferLines(MergeLines(runs, in.config))
}

// InferLines classifies already merged lines. Body lines are joined with
// single spaces into paragraphs; a heading or a blank-line gap ends a
// paragraph, and any gap between blocks becomes one BlankSeparator.
// A multi-line paragraph whose joined text would itself pass the
// numbered or all-caps rule is emitted as a heading, so inferring the
// output again gives the same blocks.
func (in *Inferencer) InferLines(lines []Line) []model.Block {
	lines = joinSectionLabels(lines, in.config)
	rules, _ := Classify(lines, in.config)
	memo := newLevelMemo()

	var blocks []model.Block
	var para []Line
	pendingBlank := false

	emit := func(b model.Block) {
		if pendingBlank && len(blocks) > 0 {
			blocks = append(blocks, model.BlankSeparator())
		}
		pendingBlank = false
		blocks = append(blocks, b)
	}
	flush := func() {
		if len(para) == 0 {
			return
		}
		texts := make([]string, len(para))
		for i, l := range para {
			texts[i] = l.Text
		}
		text := strings.Join(texts, " ")
		if len(para) > 1 && in.config.readsAsHeading(text) {
			emit(model.Heading(memo.level(styleOf(para[0])), text))
		} else {
			emit(model.Paragraph(text))
		}
		para = nil
	}

	for i, l := range lines {
		if l.BlankLinesBefore > 0 {
			flush()
			pendingBlank = true
		}
		if rules[i] != RuleNone {
			flush()
			emit(model.Heading(memo.level(styleOf(l)), l.Text))
			continue
		}
		para = append(para, l)
	}
	flush()
	return blocks
}

// Sections returns the text of every heading block in order.
func Sections(blocks []model.Block) []string {
	var out []string
	for _, b := range blocks {
		if b.IsHeading() {
			out = append(out, b.Text)
		}
	}
	return out
}
