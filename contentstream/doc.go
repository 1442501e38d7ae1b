// Package contentstream splits a PDF content stream into operations.
//
// Each [Operation] is an operator together with the operands that
// preceded it:
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//
// Tokenizing reuses [core.Lexer]. The parser is lenient: bytes that
// cannot be tokenized are skipped, and inline images (BI ... ID ... EI)
// are consumed without producing operations, since their binary data
// would otherwise be misread as operators.
package contentstream
