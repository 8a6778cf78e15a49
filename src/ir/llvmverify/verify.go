// Package llvmverify checks generated LLVM IR text against the real LLVM
// verifier. It is the one place this module still talks to
// tinygo.org/x/go-llvm (the teacher's dependency): the hand-rolled emitter
// in ir/llvmir produces the literal text spec.md's protocol specifies, and
// this package parses that text back in with the real library and asks it
// whether the result is well-formed, the same "trust the C++ library's own
// semantics" posture the teacher's ir/llvm/transform.go took for code
// generation itself.
package llvmverify

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// Verify parses the LLVM IR text ir and runs the LLVM module verifier
// against it. A non-nil error means either the text failed to parse or the
// parsed module failed verification; the message names which.
func Verify(ir string) error {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	buf := llvm.NewMemoryBufferFromString(ir)

	m, err := ctx.ParseIR(buf)
	if err != nil {
		return fmt.Errorf("generated IR failed to parse: %w", err)
	}
	defer m.Dispose()

	if err := llvm.VerifyModule(m, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("generated IR failed verification: %w", err)
	}
	return nil
}
