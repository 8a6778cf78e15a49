package ir

import "fmt"

// InputError reports a problem with the Arara source text itself: a lexical,
// syntactic or semantic mistake the user made. Per spec.md §7 it carries the
// offending construct so the CLI driver can print a single diagnostic line
// naming the kind and the construct.
type InputError struct {
	Line, Pos int
	Construct string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error at %d:%d: %s", e.Line, e.Pos, e.Construct)
}

// InternalError reports a compiler invariant violated by the compiler itself,
// not by the input program: a case the generator assumed could not occur.
type InternalError struct {
	Construct string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Construct)
}

// Unimplemented reports a construct spec.md places out of scope (see
// Non-goals) that the frontend nonetheless parsed.
type Unimplemented struct {
	Construct string
}

func (e *Unimplemented) Error() string {
	return fmt.Sprintf("unimplemented: %s", e.Construct)
}
