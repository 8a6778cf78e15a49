package tac

import (
	"strings"
	"testing"

	"ararac/src/frontend"
)

func generate(t *testing.T, src string) Listing {
	t.Helper()
	root, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	g := NewGenerator()
	code, err := g.Generate(root)
	if err != nil {
		t.Fatalf("generate error: %s", err)
	}
	return code
}

func TestGenerateAssignArithmetic(t *testing.T) {
	code := generate(t, `inteiro x; x <- 1 + 2 * 3;`)
	got := code.String()
	for _, want := range []string{"_t0 = 2 * 3", "_t1 = 1 + _t0", "x = _t1"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected listing to contain %q, got:\n%s", want, got)
		}
	}
}

func TestGenerateReadWrite(t *testing.T) {
	code := generate(t, `inteiro x; leia x; escreva x;`)
	got := code.String()
	if !strings.Contains(got, "READ x") || !strings.Contains(got, "WRITE x") {
		t.Errorf("expected READ x and WRITE x, got:\n%s", got)
	}
}

func TestGenerateIfElse(t *testing.T) {
	code := generate(t, `inteiro x;
se (x == 0) entao
escreva "zero";
senao
escreva "nonzero";
fimse;`)
	got := code.String()
	for _, want := range []string{"IF_FALSE", "GOTO", "L0:", "L1:"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in listing:\n%s", want, got)
		}
	}
}

func TestGenerateWhileLoop(t *testing.T) {
	code := generate(t, `inteiro i; i <- 0;
enquanto (i < 3) faca
escreva i;
i <- i + 1;
fimenquanto;`)
	if len(code) == 0 {
		t.Fatal("expected a non-empty listing")
	}
	// First label must begin the loop, i.e. appear before the final GOTO back to it.
	gotoIdx, labelIdx := -1, -1
	for i, ins := range code {
		if ins.Op == LABEL && labelIdx == -1 {
			labelIdx = i
		}
		if ins.Op == GOTO {
			gotoIdx = i
		}
	}
	if labelIdx == -1 || gotoIdx == -1 || labelIdx > gotoIdx {
		t.Errorf("expected a loop-start label before the back-edge GOTO, got:\n%s", code.String())
	}
}

func TestInstructionStringFormats(t *testing.T) {
	cases := []struct {
		i    Instruction
		want string
	}{
		{Instruction{Op: ASSIGN, Result: ID("x"), Arg1: LitInt(5)}, "x = 5"},
		{Instruction{Op: ADD, Result: Temp("_t0"), Arg1: ID("x"), Arg2: LitInt(1)}, "_t0 = x + 1"},
		{Instruction{Op: NOT, Result: Temp("_t1"), Arg1: ID("ok")}, "_t1 = ! ok"},
		{Instruction{Op: LABEL, Arg1: Label("L0")}, "L0:"},
		{Instruction{Op: GOTO, Arg1: Label("L0")}, "GOTO L0"},
		{Instruction{Op: IF_FALSE_GOTO, Arg1: ID("c"), Arg2: Label("L1")}, "IF_FALSE c GOTO L1"},
		{Instruction{Op: READ, Arg1: ID("x")}, "READ x"},
		{Instruction{Op: WRITE, Arg1: LitStr("hi")}, `WRITE "hi"`},
		{Instruction{Op: DECL, Arg1: ID("x")}, "DECL x"},
	}
	for _, c := range cases {
		if got := c.i.String(); got != c.want {
			t.Errorf("Instruction.String() = %q, want %q", got, c.want)
		}
	}
}
