package text

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/pdf2md/contentstream"
	"github.com/tsawler/pdf2md/core"
	"github.com/tsawler/pdf2md/font"
	"github.com/tsawler/pdf2md/graphicsstate"
	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/pages"
)

const (
	// maxFormDepth bounds Form XObject nesting.
	maxFormDepth = 8

	// spaceAdjustment is the TJ adjustment, in thousandths of a text
	// space unit, beyond which a word break is assumed.
	spaceAdjustment = -200
)

// Result is the text found on one page.
type Result struct {
	Runs []model.TextRun
	// Unmapped counts character codes that decoded to U+FFFD.
	Unmapped int
}

// Extractor extracts text runs from pages of one document. It holds no
// per-page state, so a single Extractor may serve concurrent callers.
type Extractor struct {
	r pages.Resolver
}

// NewExtractor returns an extractor resolving objects through r.
func NewExtractor(r pages.Resolver) *Extractor {
	return &Extractor{r: r}
}

// ExtractPage returns the runs of page in reading order. A page without
// content streams yields an empty result.
func (e *Extractor) ExtractPage(page *pages.Page) (Result, error) {
	streams := page.ContentStreams(e.r)
	var data []byte
	for i, s := range streams {
		decoded, err := s.Decode()
		if err != nil {
			return Result{}, &PageDecodeError{Page: page.Index, Err: fmt.Errorf("content stream %d: %w", i, err)}
		}
		data = append(data, decoded...)
		// Streams are concatenated as if they were one.
		data = append(data, '\n')
	}

	res, err := e.ExtractContent(data, page.Resources, page.Index)
	if err != nil {
		return Result{}, &PageDecodeError{Page: page.Index, Err: err}
	}
	return res, nil
}

// ExtractContent runs a raw content stream against the given resources.
// ExtractPage calls it with the page's concatenated content streams.
func (e *Extractor) ExtractContent(data []byte, resources core.Dict, pageIndex int) (Result, error) {
	w := &walker{r: e.r, page: pageIndex, forms: map[*core.Stream]bool{}}
	if err := w.run(data, newScope(resources, e.r), graphicsstate.NewGraphicsState(), 0); err != nil {
		return Result{}, err
	}
	return Result{Runs: ReadingOrder(w.runs), Unmapped: w.unmapped}, nil
}

// scope is a resource dictionary with its loaded fonts.
type scope struct {
	resources core.Dict
	fontDicts map[string]core.Dict
	fonts     map[string]*font.Font
	r         pages.Resolver
}

func newScope(resources core.Dict, r pages.Resolver) *scope {
	return &scope{
		resources: resources,
		fontDicts: pages.ResourceFonts(resources, r),
		fonts:     map[string]*font.Font{},
		r:         r,
	}
}

func (s *scope) font(name string) *font.Font {
	if f, ok := s.fonts[name]; ok {
		return f
	}
	f := font.Default()
	if d, ok := s.fontDicts[name]; ok {
		f = font.Load(d, s.r)
	}
	s.fonts[name] = f
	return f
}

// walker interprets content streams for a single page.
type walker struct {
	r        pages.Resolver
	page     int
	runs     []model.TextRun
	unmapped int
	forms    map[*core.Stream]bool
}

func (w *walker) run(data []byte, sc *scope, gs graphicsstate.GraphicsState, depth int) error {
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return err
	}

	var stack graphicsstate.Stack
	for _, op := range ops {
		args := op.Operands
		switch op.Operator {
		case "q":
			stack.Save(gs)
		case "Q":
			gs, _ = stack.Restore(gs)
		case "cm":
			if m, ok := matrixOperand(args); ok {
				gs = gs.Transform(m)
			}

		case "BT":
			gs.Text = gs.Text.BeginText()
		case "ET":
		case "Tf":
			if len(args) >= 2 {
				name, _ := args[0].(core.Name)
				size, _ := core.Number(args[1])
				gs.Text = gs.Text.SetFont(sc.font(string(name)), string(name), size)
			}
		case "Tc":
			if v, ok := number(args, 0); ok {
				gs.Text.CharSpacing = v
			}
		case "Tw":
			if v, ok := number(args, 0); ok {
				gs.Text.WordSpacing = v
			}
		case "Tz":
			if v, ok := number(args, 0); ok {
				gs.Text.HorizontalScaling = v
			}
		case "TL":
			if v, ok := number(args, 0); ok {
				gs.Text.Leading = v
			}
		case "Ts":
			if v, ok := number(args, 0); ok {
				gs.Text.Rise = v
			}
		case "Tr":
			if v, ok := number(args, 0); ok {
				gs.Text.RenderingMode = int(v)
			}
		case "Td", "TD":
			tx, okx := number(args, 0)
			ty, oky := number(args, 1)
			if okx && oky {
				if op.Operator == "TD" {
					gs.Text = gs.Text.TranslateTextSetLeading(tx, ty)
				} else {
					gs.Text = gs.Text.TranslateText(tx, ty)
				}
			}
		case "Tm":
			if m, ok := matrixOperand(args); ok {
				gs.Text = gs.Text.SetTextMatrix(m)
			}
		case "T*":
			gs.Text = gs.Text.NextLine()

		case "Tj":
			if len(args) >= 1 {
				gs = w.show(gs, core.Array{args[0]})
			}
		case "TJ":
			if len(args) >= 1 {
				if arr, ok := args[0].(core.Array); ok {
					gs = w.show(gs, arr)
				}
			}
		case "'":
			gs.Text = gs.Text.NextLine()
			if len(args) >= 1 {
				gs = w.show(gs, core.Array{args[len(args)-1]})
			}
		case "\"":
			if len(args) >= 3 {
				if aw, ok := core.Number(args[0]); ok {
					gs.Text.WordSpacing = aw
				}
				if ac, ok := core.Number(args[1]); ok {
					gs.Text.CharSpacing = ac
				}
			}
			gs.Text = gs.Text.NextLine()
			if len(args) >= 1 {
				gs = w.show(gs, core.Array{args[len(args)-1]})
			}

		case "Do":
			if len(args) >= 1 {
				if name, ok := args[0].(core.Name); ok {
					w.form(string(name), sc, gs, depth)
				}
			}
		}
	}
	return nil
}

// show decodes the strings of a Tj or TJ operand, advances the text
// matrix and records one run.
func (w *walker) show(gs graphicsstate.GraphicsState, items core.Array) graphicsstate.GraphicsState {
	f := gs.Text.Font
	if f == nil {
		f = font.Default()
		gs.Text.Font = f
	}

	start := gs.Position()
	size := gs.EffectiveFontSize()
	var sb strings.Builder

	for _, item := range items {
		switch v := item.(type) {
		case core.String:
			for _, g := range f.Decode([]byte(v)) {
				sb.WriteString(g.Text)
				if g.Unmapped {
					w.unmapped++
				}
				gs.Text = gs.Text.Advance(gs.Text.GlyphAdvance(g))
			}
		case core.Int, core.Real:
			n, _ := core.Number(v)
			gs.Text = gs.Text.Advance(gs.Text.KerningAdvance(n))
			if n < spaceAdjustment && sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
		}
	}

	text := font.NormalizeUnicode(sb.String())
	if strings.TrimSpace(text) == "" {
		return gs
	}
	end := gs.Position()
	w.runs = append(w.runs, model.TextRun{
		Text:     text,
		FontSize: round2(size),
		Bold:     f.Bold,
		FontName: f.Name,
		X:        start.X,
		Y:        start.Y,
		Width:    math.Abs(end.X - start.X),
		Page:     w.page,
	})
	return gs
}

// form interprets a Form XObject drawn with Do. Image XObjects and
// anything unresolvable are ignored.
func (w *walker) form(name string, sc *scope, gs graphicsstate.GraphicsState, depth int) {
	if depth >= maxFormDepth {
		return
	}
	xobjects, _ := w.r.Resolve(sc.resources.Get("XObject")).(core.Dict)
	stream, ok := w.r.Resolve(xobjects.Get(name)).(*core.Stream)
	if !ok || w.forms[stream] {
		return
	}
	if st, _ := stream.Dict.GetName("Subtype"); st != "Form" {
		return
	}
	data, err := stream.Decode()
	if err != nil {
		// A broken form does not spoil the rest of the page.
		return
	}

	if arr, ok := w.r.Resolve(stream.Dict.Get("Matrix")).(core.Array); ok {
		if vals, ok := arr.Floats(); ok {
			if m, ok := model.NewMatrix(vals); ok {
				gs = gs.Transform(m)
			}
		}
	}
	inner := sc
	if res, ok := w.r.Resolve(stream.Dict.Get("Resources")).(core.Dict); ok {
		inner = newScope(res, w.r)
	}

	w.forms[stream] = true
	defer delete(w.forms, stream)
	_ = w.run(data, inner, gs, depth+1)
}

func number(args []core.Object, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return core.Number(args[i])
}

func matrixOperand(args []core.Object) (model.Matrix, bool) {
	if len(args) != 6 {
		return model.Matrix{}, false
	}
	vals, ok := core.Array(args).Floats()
	if !ok {
		return model.Matrix{}, false
	}
	return model.NewMatrix(vals)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
