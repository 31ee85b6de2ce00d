// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import (
	"fmt"
	"io"
)

// LogLevel controls the frequency and type of logger output, mirroring the
// teacher optimizers' own LogLevel idiom.
type LogLevel int

const (
	// LogNoop means no output is generated (level < 0).
	LogNoop LogLevel = -1
	// LogQuiet prints no per-iteration records; only warnings (such as a
	// non-descent line-search direction) are written, to Out. No summary
	// line is printed.
	LogQuiet LogLevel = 0
	// LogVerbose prints one LogRecord line per inner iteration.
	LogVerbose LogLevel = 1
	// LogVery adds the accepted step, the multipliers and the pivot
	// signature to each LogVerbose line.
	LogVery LogLevel = 2
)

// Logger handles logging output for the solver. The writers must be
// thread-safe if a Workspace is ever (against the concurrency contract)
// shared across goroutines.
type Logger struct {
	Level LogLevel
	Msg   io.Writer
	Out   io.Writer
}

func (l *Logger) enable(level LogLevel) bool {
	return l != nil && l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if l == nil || l.Msg == nil {
		return
	}
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

func (l *Logger) out(format string, a ...any) {
	if l == nil || l.Out == nil {
		return
	}
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

// LogRecord is emitted once per accepted inner iteration.
type LogRecord struct {
	Iter       int
	Alpha      float64
	InnerCrit  float64
	PrimInfeas float64
	DualInfeas float64
	Delta      float64
	DMeritDir  float64
	Merit      float64
	DMerit     float64

	// Step and Lambda hold the accepted primal step and the updated
	// multiplier vector; Signature holds the KKT factorization's pivot
	// signs. All three are only printed at LogVery.
	Step      []float64
	Lambda    []float64
	Signature []int
}

func (l *Logger) record(r LogRecord) {
	if l.enable(LogVerbose) {
		l.log("iter=%-4d alpha=%-10.3e crit=%-10.3e prim=%-10.3e dual=%-10.3e delta=%-10.3e merit=%-10.3e dmerit=%-10.3e\n",
			r.Iter, r.Alpha, r.InnerCrit, r.PrimInfeas, r.DualInfeas, r.Delta, r.Merit, r.DMerit)
	}
	if l.enable(LogVery) {
		l.log("  step=%v lambda=%v signature=%v\n", r.Step, r.Lambda, r.Signature)
	}
}
