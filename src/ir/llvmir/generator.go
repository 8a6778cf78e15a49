// Package llvmir hand-translates a tac.Listing into textual LLVM IR, per
// spec.md §3.4 and §4.2. The textual protocol spec.md specifies — exact
// module header, exact alloca/getelementptr shapes, exact string interning —
// is produced directly rather than through an IR-builder library; see
// SPEC_FULL.md §4.3 and DESIGN.md for why. The package borrows its internal
// shape (a Block that accumulates lines and tracks its own termination, a
// Module that assembles sections) from the teacher's ir/lir package.
package llvmir

import (
	"fmt"
	"strings"

	"ararac/src/ir"
	"ararac/src/ir/tac"
)

// llvmType names the four LLVM scalar types spec.md §4.2 maps Arara's types
// onto.
type llvmType string

const (
	tyI32   llvmType = "i32"
	tyFloat llvmType = "float"
	tyI1    llvmType = "i1"
	tyPtr   llvmType = "i8*"
)

// typeOf maps an Arara TypeTag to its LLVM scalar type, per spec.md §4.2's
// type table.
func typeOf(t ir.TypeTag) llvmType {
	switch t {
	case ir.Real:
		return tyFloat
	case ir.Booleano:
		return tyI1
	default:
		return tyI32
	}
}

// block is a single basic block under construction: a label, its
// accumulated instruction lines, and whether a terminator (br/ret) has
// already been appended. Tracking termination with a boolean, rather than
// scanning the accumulated text for a trailing "br"/"ret", is the design
// spec.md §9 calls for.
type block struct {
	label      string
	lines      []string
	terminated bool
}

func (b *block) emit(format string, args ...interface{}) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *block) terminate(format string, args ...interface{}) {
	if b.terminated {
		return
	}
	b.emit(format, args...)
	b.terminated = true
}

// Generator is a builder object holding every piece of mutable state needed
// to translate one tac.Listing to LLVM IR text: the next free SSA register
// number, the allocated-variable type table, the temporary type table and
// the interned string table. A fresh Generator is created per compilation,
// per spec.md §5.
type Generator struct {
	st *ir.SymTab

	regCount int
	blocks   []*block
	cur      *block

	strings    []string       // interned string contents, in intern order
	stringIdx  map[string]int // content -> index into strings
	tempTypes  map[string]llvmType
	declaredAt map[string]bool // identifiers that received an alloca
}

// NewGenerator returns a Generator that will resolve identifier types
// against st.
func NewGenerator(st *ir.SymTab) *Generator {
	return &Generator{
		st:         st,
		stringIdx:  make(map[string]int),
		tempTypes:  make(map[string]llvmType),
		declaredAt: make(map[string]bool),
	}
}

// Generate translates code into a complete LLVM IR module, per spec.md
// §3.4: a module header, global string constants, external declarations of
// printf/scanf, and a single @main function.
func (g *Generator) Generate(code tac.Listing) (string, error) {
	entry := &block{label: "entry"}
	g.blocks = []*block{entry}
	g.cur = entry

	g.allocaPrepass(code)

	// entry holds allocas and nothing else: it must end in exactly one
	// unconditional br to the first code block, per spec.md §4.2.5 item 2.
	// If code already opens with a LABEL, branch straight to it; otherwise
	// synthesize one (code0 can't collide with a TAC-generated Lnnn label).
	firstLabel := "code0"
	rest := code
	if len(code) > 0 && code[0].Op == tac.LABEL {
		firstLabel = code[0].Arg1.Name
		rest = code[1:]
	}
	entry.terminate("br label %%%s", firstLabel)
	g.newBlock(firstLabel)

	for _, ins := range rest {
		if err := g.translate(ins); err != nil {
			return "", err
		}
	}
	g.cur.terminate("ret i32 0")

	return g.assemble(), nil
}

// allocaPrepass emits one `alloca` per identifier the listing declares or
// references, before any other instruction, per spec.md §4.2's prepass
// requirement that every variable's storage exist before its first use.
func (g *Generator) allocaPrepass(code tac.Listing) {
	var names []string
	for _, ins := range code {
		for _, op := range []tac.Operand{ins.Result, ins.Arg1, ins.Arg2} {
			if op.Kind == tac.OpID && !g.declaredAt[op.Name] {
				g.declaredAt[op.Name] = true
				names = append(names, op.Name)
			}
		}
	}
	for _, name := range names {
		ty := typeOf(g.st.Lookup(name).Typ)
		g.cur.emit("%%%s_ptr = alloca %s, align 4", name, ty)
	}
}

// freshReg allocates a new SSA register name.
func (g *Generator) freshReg() string {
	r := fmt.Sprintf("%%r%d", g.regCount)
	g.regCount++
	return r
}

// newBlock starts and switches to a new named basic block.
func (g *Generator) newBlock(label string) *block {
	b := &block{label: label}
	g.blocks = append(g.blocks, b)
	g.cur = b
	return b
}

// internString returns the name of the global constant holding the exact
// bytes of s plus a NUL terminator, interning it on first use. Callers
// decide what s is: a bare scanf format ("%d"), a newline-suffixed printf
// format ("%d\n"), or a decoded string literal. Per spec.md §4.2.3 the
// "%d" scanf format and the "%d\n" printf format are two distinct interned
// globals, never one shared constant.
func (g *Generator) internString(s string) (name string, length int) {
	if idx, ok := g.stringIdx[s]; ok {
		return fmt.Sprintf("@.str.%d", idx), len(s) + 1
	}
	idx := len(g.strings)
	g.stringIdx[s] = idx
	g.strings = append(g.strings, s)
	return fmt.Sprintf("@.str.%d", idx), len(s) + 1
}

// decodeEscapes decodes the single escape vocabulary the lexer preserves
// verbatim inside string literals: \" \\ \n \t. Deferred to string-interning
// time per spec.md §9, rather than done at parse time.
func decodeEscapes(s string) string {
	out := make([]rune, 0, len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, runes[i])
			}
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}

// escapeString renders s (including its trailing NUL) in LLVM's
// backslash-hex-pair string constant syntax.
func escapeString(s string) string {
	var sb strings.Builder
	for _, b := range []byte(s) {
		if b >= 0x20 && b < 0x7f && b != '"' && b != '\\' {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "\\%02X", b)
		}
	}
	sb.WriteString("\\00")
	return sb.String()
}

// typeOfOperand resolves the LLVM type an operand is carrying.
func (g *Generator) typeOfOperand(op tac.Operand) llvmType {
	switch op.Kind {
	case tac.OpLitInt:
		return tyI32
	case tac.OpLitStr:
		return tyPtr
	case tac.OpID:
		return typeOf(g.st.Lookup(op.Name).Typ)
	case tac.OpTemp:
		if ty, ok := g.tempTypes[op.Name]; ok {
			return ty
		}
		return tyI32
	default:
		return tyI32
	}
}

// materialize produces the LLVM value text for reading op as a value of
// type target, emitting whatever load/coercion instructions are required
// into the current block. An i32 operand read in an i1 (boolean) context is
// coerced with `icmp ne ..., 0`, per spec.md §4.2 and §9.
func (g *Generator) materialize(op tac.Operand, target llvmType) string {
	var raw string
	srcTy := g.typeOfOperand(op)

	switch op.Kind {
	case tac.OpLitInt:
		raw = fmt.Sprintf("%d", op.Int)
	case tac.OpLitStr:
		// WRITE of a bare string literal always appends a trailing newline,
		// per SPEC_FULL.md §4.4; escape decoding happens here, at intern
		// time, not in the parser.
		name, length := g.internString(decodeEscapes(op.Str) + "\n")
		reg := g.freshReg()
		g.cur.emit("%s = getelementptr inbounds [%d x i8], [%d x i8]* %s, i64 0, i64 0", reg, length, length, name)
		return reg
	case tac.OpID:
		reg := g.freshReg()
		g.cur.emit("%s = load %s, %s* %%%s_ptr, align 4", reg, srcTy, srcTy, op.Name)
		raw = reg
	case tac.OpTemp:
		raw = "%" + op.Name
	default:
		raw = "0"
	}

	if srcTy == target {
		return raw
	}
	if srcTy == tyI32 && target == tyI1 {
		reg := g.freshReg()
		g.cur.emit("%s = icmp ne i32 %s, 0", reg, raw)
		return reg
	}
	if srcTy == tyI1 && target == tyI32 {
		reg := g.freshReg()
		g.cur.emit("%s = zext i1 %s to i32", reg, raw)
		return reg
	}
	return raw
}

// resultReg returns the SSA register name an instruction's Result operand
// should bind to, recording its type for later materialize calls.
func (g *Generator) resultReg(result tac.Operand, ty llvmType) string {
	if result.Kind == tac.OpTemp {
		g.tempTypes[result.Name] = ty
		return "%" + result.Name
	}
	return g.freshReg()
}

// translate appends the LLVM IR for a single TAC instruction to the current
// block, per spec.md §4.2's per-opcode translation table.
func (g *Generator) translate(ins tac.Instruction) error {
	switch ins.Op {
	case tac.DECL:
		// Storage was already allocated by allocaPrepass.
		return nil

	case tac.LABEL:
		if !g.cur.terminated {
			g.cur.terminate("br label %%%s", ins.Arg1.Name)
		}
		g.newBlock(ins.Arg1.Name)
		return nil

	case tac.GOTO:
		g.cur.terminate("br label %%%s", ins.Arg1.Name)
		return nil

	case tac.IF_FALSE_GOTO:
		cond := g.materialize(ins.Arg1, tyI1)
		thenLabel := fmt.Sprintf("%s.cont", sanitize(ins.Arg2.Name))
		g.cur.terminate("br i1 %s, label %%%s, label %%%s", cond, thenLabel, ins.Arg2.Name)
		g.newBlock(thenLabel)
		return nil

	case tac.READ:
		return g.translateRead(ins)

	case tac.WRITE:
		return g.translateWrite(ins)

	case tac.ASSIGN:
		if ins.Result.Kind != tac.OpID {
			return &ir.InternalError{Construct: "ASSIGN into a non-identifier operand"}
		}
		ty := typeOf(g.st.Lookup(ins.Result.Name).Typ)
		v := g.materialize(ins.Arg1, ty)
		g.cur.emit("store %s %s, %s* %%%s_ptr, align 4", ty, v, ty, ins.Result.Name)
		return nil

	case tac.NOT:
		v := g.materialize(ins.Arg1, tyI1)
		reg := g.resultReg(ins.Result, tyI1)
		g.cur.emit("%s = xor i1 %s, true", reg, v)
		return nil

	default:
		return g.translateBinary(ins)
	}
}

// translateBinary handles every arithmetic, comparison and logical opcode,
// choosing int or float arithmetic by the operands' materialized type and
// boolean operators for AND/OR.
func (g *Generator) translateBinary(ins tac.Instruction) error {
	isFloat := g.typeOfOperand(ins.Arg1) == tyFloat || g.typeOfOperand(ins.Arg2) == tyFloat

	switch ins.Op {
	case tac.ADD, tac.SUB, tac.MUL, tac.DIV:
		ty := tyI32
		if isFloat {
			ty = tyFloat
		}
		a := g.materialize(ins.Arg1, ty)
		b := g.materialize(ins.Arg2, ty)
		reg := g.resultReg(ins.Result, ty)
		g.cur.emit("%s = %s %s %s, %s", reg, arithOp(ins.Op, isFloat), ty, a, b)
		return nil

	case tac.EQ, tac.NEQ, tac.LT, tac.LE, tac.GT, tac.GE:
		ty := tyI32
		if isFloat {
			ty = tyFloat
		}
		a := g.materialize(ins.Arg1, ty)
		b := g.materialize(ins.Arg2, ty)
		reg := g.resultReg(ins.Result, tyI1)
		if isFloat {
			g.cur.emit("%s = fcmp %s %s %s, %s", reg, fcmpPred(ins.Op), ty, a, b)
		} else {
			g.cur.emit("%s = icmp %s %s %s, %s", reg, icmpPred(ins.Op), ty, a, b)
		}
		return nil

	case tac.AND, tac.OR:
		a := g.materialize(ins.Arg1, tyI1)
		b := g.materialize(ins.Arg2, tyI1)
		reg := g.resultReg(ins.Result, tyI1)
		op := "and"
		if ins.Op == tac.OR {
			op = "or"
		}
		g.cur.emit("%s = %s i1 %s, %s", reg, op, a, b)
		return nil
	}
	return &ir.InternalError{Construct: fmt.Sprintf("unhandled opcode %s", ins.Op)}
}

func arithOp(op tac.Opcode, isFloat bool) string {
	switch op {
	case tac.ADD:
		if isFloat {
			return "fadd"
		}
		return "add nsw"
	case tac.SUB:
		if isFloat {
			return "fsub"
		}
		return "sub nsw"
	case tac.MUL:
		if isFloat {
			return "fmul"
		}
		return "mul nsw"
	case tac.DIV:
		if isFloat {
			return "fdiv"
		}
		return "sdiv"
	}
	return "add"
}

func icmpPred(op tac.Opcode) string {
	switch op {
	case tac.EQ:
		return "eq"
	case tac.NEQ:
		return "ne"
	case tac.LT:
		return "slt"
	case tac.LE:
		return "sle"
	case tac.GT:
		return "sgt"
	case tac.GE:
		return "sge"
	}
	return "eq"
}

func fcmpPred(op tac.Opcode) string {
	switch op {
	case tac.EQ:
		return "oeq"
	case tac.NEQ:
		return "one"
	case tac.LT:
		return "olt"
	case tac.LE:
		return "ole"
	case tac.GT:
		return "ogt"
	case tac.GE:
		return "oge"
	}
	return "oeq"
}

// translateRead lowers READ x to a scanf call against a format string
// chosen by x's declared type.
func (g *Generator) translateRead(ins tac.Instruction) error {
	if ins.Arg1.Kind != tac.OpID {
		return &ir.InternalError{Construct: "READ target is not an identifier"}
	}
	name := ins.Arg1.Name
	ty := typeOf(g.st.Lookup(name).Typ)
	fmtName, fmtLen := g.internString(scanfFormat(ty))
	fmtReg := g.freshReg()
	g.cur.emit("%s = getelementptr inbounds [%d x i8], [%d x i8]* %s, i64 0, i64 0", fmtReg, fmtLen, fmtLen, fmtName)
	g.cur.emit("call i32 (i8*, ...) @scanf(i8* %s, %s* %%%s_ptr)", fmtReg, ty, name)
	return nil
}

// translateWrite lowers WRITE v to a printf call against a format string
// chosen by v's materialized type.
func (g *Generator) translateWrite(ins tac.Instruction) error {
	ty := g.typeOfOperand(ins.Arg1)
	if ty == tyPtr {
		v := g.materialize(ins.Arg1, tyPtr)
		g.cur.emit("call i32 (i8*, ...) @printf(i8* %s)", v)
		return nil
	}
	fmtName, fmtLen := g.internString(printfFormat(ty))
	fmtReg := g.freshReg()
	g.cur.emit("%s = getelementptr inbounds [%d x i8], [%d x i8]* %s, i64 0, i64 0", fmtReg, fmtLen, fmtLen, fmtName)
	v := g.materialize(ins.Arg1, widenForVararg(ty))
	g.cur.emit("call i32 (i8*, ...) @printf(i8* %s, %s %s)", fmtReg, widenForVararg(ty), v)
	return nil
}

// widenForVararg returns the type a value of ty is passed as through a
// varargs printf/scanf call: booleans widen to i32, everything else passes
// through unchanged.
func widenForVararg(ty llvmType) llvmType {
	if ty == tyI1 {
		return tyI32
	}
	return ty
}

// scanfFormat returns the bare scanf format for ty, with no trailing
// newline: spec.md §4.2.6's READ rule interns this exact un-suffixed string.
func scanfFormat(ty llvmType) string {
	switch ty {
	case tyFloat:
		return "%f"
	default:
		return "%d"
	}
}

// printfFormat returns the newline-suffixed printf format for ty. It is a
// distinct interned global from scanfFormat's bare format, per spec.md
// §4.2.3.
func printfFormat(ty llvmType) string {
	switch ty {
	case tyFloat:
		return "%f\n"
	default:
		return "%d\n"
	}
}

// sanitize produces a valid LLVM local identifier fragment from a TAC label
// name.
func sanitize(s string) string {
	return strings.TrimPrefix(s, "%")
}

// assemble concatenates the module header, string constants, external
// declarations and the @main function body into the final LLVM IR text.
func (g *Generator) assemble() string {
	var sb strings.Builder

	sb.WriteString(`; ModuleID = 'arara.arara'
source_filename = "arara.arara"
target datalayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"
target triple = "x86_64-unknown-linux-gnu"

`)

	for idx, s := range g.strings {
		enc := escapeString(s)
		length := len(s) + 1
		fmt.Fprintf(&sb, "@.str.%d = private unnamed_addr constant [%d x i8] c\"%s\", align 1\n", idx, length, enc)
	}
	if len(g.strings) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("declare i32 @printf(i8*, ...)\n")
	sb.WriteString("declare i32 @scanf(i8*, ...)\n\n")

	sb.WriteString("define i32 @main() {\n")
	for _, b := range g.blocks {
		fmt.Fprintf(&sb, "%s:\n", b.label)
		for _, line := range b.lines {
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("}\n")

	return sb.String()
}
