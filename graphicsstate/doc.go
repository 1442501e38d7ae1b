// Package graphicsstate models the parts of the PDF graphics state that
// text extraction needs: the current transformation matrix and the text
// state (font, size, spacing, text matrices).
//
// States are plain values. Operators produce a new value instead of
// mutating shared state, and q/Q save and restore copies on a [Stack]
// owned by the caller:
//
//	gs := graphicsstate.NewGraphicsState()
//	var stack graphicsstate.Stack
//	stack.Save(gs)                  // q
//	gs = gs.Transform(m)            // cm
//	gs.Text = gs.Text.SetFont(f, "F1", 12) // Tf
//	gs, _ = stack.Restore(gs)       // Q
package graphicsstate
