package util

import (
	"bufio"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"time"
)

// ReadSource reads Arara source code from file or stdin. If opt.Src names a
// file it is read directly. Otherwise the function waits a short period for
// input on stdin, matching the teacher's ReadSource behaviour, and returns
// an error if none arrives.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		b, err := ioutil.ReadFile(opt.Src)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)

	go func(c chan string, cerr chan error) {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString(0)
		// Input without a NUL byte ends in io.EOF: that is still input.
		if err == nil || (err == io.EOF && len(text) > 0) {
			c <- text
		} else {
			cerr <- err
		}
	}(c, cerr)

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	}
}

// WriteOutput writes s to path, or to stdout if path is empty. The core
// compiler is single-threaded (spec.md §5) and produces exactly one output
// blob per invocation, so there is no writer fan-in to coordinate: this
// replaces the teacher's channel-based util.Writer/ListenWrite, which
// existed to merge concurrent per-function codegen output from the deleted
// native backend.
func WriteOutput(path, s string) error {
	if len(path) == 0 {
		_, err := os.Stdout.WriteString(s)
		return err
	}
	return ioutil.WriteFile(path, []byte(s), 0644)
}
