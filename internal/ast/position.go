package ast

import "fmt"

// Position tracks the source location of a node, for diagnostics only —
// the core never re-derives it, it is supplied by whatever builds the AST.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
