// Package klog is the kernel's console logger. Biscuit logs by calling
// fmt.Printf directly at call sites (mem.Phys_init: "Reserved %v pages
// (%vMB)\n"); this core keeps that register but funnels every call site
// through one Writer so the console device (an external collaborator per
// §1/§6) can be swapped without touching call sites, and so host-side tests
// can capture kernel log output.
package klog

import (
	"fmt"
	"io"
	"os"
)

// Out is where kernel log lines go. Defaults to stderr so host tests and a
// hosted build both get sane output; the real boot path rebinds this to the
// SBI console writer supplied by the external console collaborator.
var Out io.Writer = os.Stderr

// Printf formats and writes a log line, matching biscuit's bare fmt.Printf
// call-site idiom.
func Printf(format string, args ...interface{}) {
	fmt.Fprintf(Out, format, args...)
}

// Println writes a log line with a trailing newline.
func Println(args ...interface{}) {
	fmt.Fprintln(Out, args...)
}
