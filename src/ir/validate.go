package ir

// GenerateSymTab walks the syntax tree rooted at root and builds the
// semantic table of spec.md §3.2 from every DECL command it finds. This
// mirrors the teacher's ir/validate.go two-pass shape (build the table, then
// check the tree against it) but flattened to Arara's single program scope:
// there is no nested scope stack to push and pop, since Arara has no
// user-defined functions.
func GenerateSymTab(root *Node) *SymTab {
	st := NewSymTab()
	declare(root, st)
	return st
}

func declare(n *Node, st *SymTab) {
	if n == nil {
		return
	}
	if n.Typ == DECL {
		typ := n.Data.(TypeTag)
		name := n.Children[0].Data.(string)
		n.Children[0].Entry = st.Declare(name, typ)
		return
	}
	for _, c := range n.Children {
		declare(c, st)
	}
}

// ValidateTree binds every identifier reference in the tree rooted at root to
// its Symbol in st, defaulting undeclared identifiers to Inteiro per
// spec.md §3.2. It returns an *InputError if a read or assignment target is
// structurally malformed; the permissive type defaulting of §3.2
// means ValidateTree never rejects a program solely for type mismatches,
// matching original_source's untyped-at-compile-time interpreter.
func ValidateTree(root *Node, st *SymTab) error {
	return bind(root, st)
}

func bind(n *Node, st *SymTab) error {
	if n == nil {
		return nil
	}
	switch n.Typ {
	case IDENTIFIER_DATA:
		if n.Entry == nil {
			name, ok := n.Data.(string)
			if !ok {
				return &InternalError{Construct: "identifier node without a name"}
			}
			n.Entry = st.Lookup(name)
		}
	case READ:
		if len(n.Children) != 1 || n.Children[0].Typ != IDENTIFIER_DATA {
			return &InputError{Line: n.Line, Pos: n.Pos, Construct: "leia without an identifier"}
		}
	case ASSIGN:
		if len(n.Children) != 2 || n.Children[0].Typ != IDENTIFIER_DATA {
			return &InputError{Line: n.Line, Pos: n.Pos, Construct: "assignment without an identifier target"}
		}
	}
	for _, c := range n.Children {
		if err := bind(c, st); err != nil {
			return err
		}
	}
	return nil
}
