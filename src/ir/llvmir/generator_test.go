package llvmir

import (
	"strings"
	"testing"

	"ararac/src/frontend"
	"ararac/src/ir"
	"ararac/src/ir/tac"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	root, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	st := ir.GenerateSymTab(root)
	if err := ir.ValidateTree(root, st); err != nil {
		t.Fatalf("validate error: %s", err)
	}
	code, err := tac.NewGenerator().Generate(root)
	if err != nil {
		t.Fatalf("tac generate error: %s", err)
	}
	out, err := NewGenerator(st).Generate(code)
	if err != nil {
		t.Fatalf("llvmir generate error: %s", err)
	}
	return out
}

func TestGenerateHelloWorld(t *testing.T) {
	out := compile(t, `escreva "Hello, world!";`)
	for _, want := range []string{
		"define i32 @main()",
		"declare i32 @printf(i8*, ...)",
		"private unnamed_addr constant",
		"call i32 (i8*, ...) @printf(i8*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerateReadWrite(t *testing.T) {
	out := compile(t, `inteiro x; leia x; escreva x;`)
	for _, want := range []string{
		"%x_ptr = alloca i32, align 4",
		"@scanf(i8*",
		"@printf(i8*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerateArithmeticChain(t *testing.T) {
	out := compile(t, `inteiro x; x <- 1 + 2 * 3; escreva x;`)
	if !strings.Contains(out, "mul nsw i32 2, 3") {
		t.Errorf("expected a multiply before the add, got:\n%s", out)
	}
	if !strings.Contains(out, "add nsw i32 1,") {
		t.Errorf("expected an add combining the literal and the mul result, got:\n%s", out)
	}
}

func TestGenerateIfBranchesOnComparison(t *testing.T) {
	out := compile(t, `inteiro x;
se (x == 0) entao
escreva "zero";
fimse;`)
	if !strings.Contains(out, "icmp eq i32") {
		t.Errorf("expected an icmp eq, got:\n%s", out)
	}
	if !strings.Contains(out, "br i1") {
		t.Errorf("expected a conditional branch, got:\n%s", out)
	}
}

func TestGenerateWhileLoopHasBackEdge(t *testing.T) {
	out := compile(t, `inteiro i; i <- 0;
enquanto (i < 3) faca
escreva i;
i <- i + 1;
fimenquanto;`)
	if strings.Count(out, "br label %L0") == 0 {
		t.Errorf("expected a back-edge branch to the loop header, got:\n%s", out)
	}
}

func TestGenerateLogicalCombination(t *testing.T) {
	out := compile(t, `booleano a; booleano b;
se (a && !b) entao
escreva "ok";
fimse;`)
	if !strings.Contains(out, "xor i1") {
		t.Errorf("expected a NOT lowered to xor i1, got:\n%s", out)
	}
	if !strings.Contains(out, "and i1") {
		t.Errorf("expected an AND lowered to and i1, got:\n%s", out)
	}
}

func TestEachBlockHasExactlyOneTerminator(t *testing.T) {
	out := compile(t, `inteiro i; i <- 0;
enquanto (i < 3) faca
escreva i;
i <- i + 1;
fimenquanto;`)
	// Split the body of @main into basic blocks (an unindented "label:" line
	// opens each one) and check that every block holds exactly one br/ret,
	// as its last line.
	isTerm := func(l string) bool {
		return strings.HasPrefix(l, "  br ") || strings.HasPrefix(l, "  ret ")
	}
	var label string
	var lines []string
	check := func() {
		if label == "" {
			return
		}
		terms := 0
		for _, l := range lines {
			if isTerm(l) {
				terms++
			}
		}
		if terms != 1 || !isTerm(lines[len(lines)-1]) {
			t.Errorf("block %s: expected exactly one terminator as its last line, got %d in:\n%s", label, terms, strings.Join(lines, "\n"))
		}
	}
	body := out[strings.Index(out, "define i32 @main() {\n"):]
	for _, l := range strings.Split(body, "\n")[1:] {
		if l == "}" {
			break
		}
		if !strings.HasPrefix(l, "  ") && strings.HasSuffix(l, ":") {
			check()
			label, lines = strings.TrimSuffix(l, ":"), nil
			continue
		}
		lines = append(lines, l)
	}
	check()
	if !strings.Contains(out, "ret i32 0") {
		t.Errorf("expected main to end in ret i32 0, got:\n%s", out)
	}
}
