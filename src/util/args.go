package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds every setting the ararac CLI driver needs, parsed from
// os.Args by ParseArgs. Narrowed from the teacher's util.Options: the
// Threads/TargetArch/TargetVendor/TargetCPU/TargetOS fields targeted the
// deleted native multi-architecture backend and have no SPEC_FULL.md
// component to serve; -tac and -verify are new, serving the TAC-dump and
// LLVM-verification pipeline stages SPEC_FULL.md §2.3 adds.
type Options struct {
	Src         string // Path to source file. Empty means read stdin.
	Out         string // Path to output file for the generated LLVM IR. Empty means stdout.
	TacOut      string // Path to dump the textual TAC listing to, if set.
	Verify      bool   // Run the generated IR through the LLVM verifier.
	Verbose     bool   // Print build id, instruction count, IR size and total time to stdout.
	TokenStream bool   // Print the token stream and exit.
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "ararac 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options value.
func ParseArgs() (Options, error) {
	opt := Options{}
	if len(os.Args) < 2 {
		return opt, nil
	}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-o", "-tac":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path, got new flag %s", args[i1+1])
			}
			switch args[i1] {
			case "-o":
				opt.Out = args[i1+1]
			case "-tac":
				opt.TacOut = args[i1+1]
			}
			i1++
		case "-verify":
			opt.Verify = true
		case "-ts":
			opt.TokenStream = true
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			opt.Verbose = true
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-o\tPath and name of the output file for the generated LLVM IR.")
	_, _ = fmt.Fprintln(w, "-tac\tAlso dump the textual three-address-code listing to this path.")
	_, _ = fmt.Fprintln(w, "-verify\tParse the generated IR with the LLVM verifier and fail on rejection.")
	_, _ = fmt.Fprintln(w, "-ts\tOutput the tokens of the source code and exit.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_ = w.Flush()
}
