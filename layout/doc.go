// Package layout rebuilds document structure from positioned text runs.
//
// Inference runs in three steps over the whole document:
//
//  1. Runs sharing a baseline are merged into a [Line]. Vertical gaps
//     between lines become blank-line counts.
//  2. Each line is classified as heading or body text. The first matching
//     rule wins: a numbered-section prefix ("2.1 Getting Started"), a short
//     all-caps line, or a font size well above the body size.
//  3. Headings get levels by style (font size bucket and weight): the
//     first style seen is level 1, the next distinct style level 2, up to
//     level 6. Body lines are joined into paragraphs until a heading or a
//     blank-line gap.
//
// The result is a sequence of [model.Block] values ready for rendering.
package layout
