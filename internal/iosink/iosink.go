// Package iosink fans a program's stdout and stderr out to a second,
// in-memory sink alongside the real streams, for the interpreter's
// optional -trace CLI flag. It exists purely as a debugging aid: default
// runs never touch it.
package iosink

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Recorder captures everything written through it while also forwarding
// to an underlying stream. Writes from concurrent goroutines (stdout and
// stderr can both be live at once) are serialised by a mutex.
type Recorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
	dst io.Writer
}

// NewRecorder creates a Recorder that forwards every Write to dst in
// addition to buffering it.
func NewRecorder(dst io.Writer) *Recorder {
	return &Recorder{dst: dst}
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf.Write(p)
	return r.dst.Write(p)
}

// String returns everything recorded so far.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.buf.String()
}

// DualSink holds the two recorders -trace installs in place of a plain
// stdout/stderr pair.
type DualSink struct {
	Stdout *Recorder
	Stderr *Recorder
}

// NewDualSink wraps outDst/errDst with recorders.
func NewDualSink(outDst, errDst io.Writer) *DualSink {
	return &DualSink{
		Stdout: NewRecorder(outDst),
		Stderr: NewRecorder(errDst),
	}
}

// Dump writes the recorded stdout and stderr sections to w, running the
// two writes as concurrent goroutines joined with errgroup.Group the way
// the teacher's Compiler.build joins its pipe-writer and subprocess-wait
// goroutines.
func (d *DualSink) Dump(w io.Writer) error {
	var mu sync.Mutex
	write := func(label string, r *Recorder) error {
		mu.Lock()
		defer mu.Unlock()

		if _, err := fmt.Fprintf(w, "--- trace: %s ---\n", label); err != nil {
			return err
		}
		_, err := io.WriteString(w, r.String())
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return write("stdout", d.Stdout) })
	g.Go(func() error { return write("stderr", d.Stderr) })

	return g.Wait()
}
