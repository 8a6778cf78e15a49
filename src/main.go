package main

import (
	"fmt"
	"os"
	"time"

	"ararac/src/frontend"
	"ararac/src/ir"
	"ararac/src/ir/llvmir"
	"ararac/src/ir/llvmverify"
	"ararac/src/ir/tac"
	"ararac/src/util"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// run sequences the compiler stages: read source, lex+parse, build and
// validate the semantic table, lower to three-address code, optionally dump
// the TAC listing, generate LLVM IR, optionally verify it, and write the
// result. Behaviour is entirely driven by the util.Options structure, per
// the teacher's main.go staging.
func run(opt util.Options) error {
	buildID := uuid.New()
	start := time.Now()

	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	if opt.TokenStream {
		if err := frontend.TokenStream(src); err != nil {
			return fmt.Errorf("syntax error: %s", err)
		}
		return nil
	}

	root, err := frontend.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %s", err)
	}

	st := ir.GenerateSymTab(root)
	if err := ir.ValidateTree(root, st); err != nil {
		return fmt.Errorf("syntax tree error: %s", err)
	}

	tacGen := tac.NewGenerator()
	code, err := tacGen.Generate(root)
	if err != nil {
		return fmt.Errorf("TAC generation error: %s", err)
	}

	if len(opt.TacOut) > 0 {
		if err := util.WriteOutput(opt.TacOut, code.String()); err != nil {
			return fmt.Errorf("could not write TAC listing: %s", err)
		}
	}

	llvmGen := llvmir.NewGenerator(st)
	out, err := llvmGen.Generate(code)
	if err != nil {
		return fmt.Errorf("LLVM IR generation error: %s", err)
	}

	if opt.Verify {
		if err := llvmverify.Verify(out); err != nil {
			return fmt.Errorf("LLVM verification error: %s", err)
		}
	}

	if err := util.WriteOutput(opt.Out, out); err != nil {
		return fmt.Errorf("could not write output: %s", err)
	}

	if opt.Verbose {
		fmt.Printf("build %s: %d instructions, %s generated in %s\n",
			buildID, len(code), humanize.Bytes(uint64(len(out))), time.Since(start))
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
