// Package htmldoc renders a block sequence as an HTML document.
//
// Rendering builds a golang.org/x/net/html node tree and serializes it
// with html.Render, so text is always escaped correctly. Headings become
// h1 to h6 elements and paragraphs become p elements inside body. The
// document title and author go into head.
package htmldoc
