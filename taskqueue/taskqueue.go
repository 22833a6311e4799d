// Package taskqueue implements the FIFO boot job list (§4.13): shell
// command lines seeded at boot, popped one at a time whenever the
// scheduler's ready queue empties. biscuit's own boot path hard-codes a
// single first user program rather than draining a queue (its retrievable
// kernel/ sources are build tooling, not the boot entry); this core
// generalizes that single hard-coded command into a real FIFO so more
// than one boot job can run in sequence before the kernel treats an empty
// queue as shutdown (§6).
package taskqueue

import "strings"

// Queue is a simple FIFO of not-yet-started boot commands.
type Queue struct {
	jobs []string
}

// New returns a queue seeded with cmds, in the order they should run.
func New(cmds ...string) *Queue {
	return &Queue{jobs: append([]string(nil), cmds...)}
}

// Push appends a command line to the tail of the queue.
func (q *Queue) Push(cmdline string) {
	q.jobs = append(q.jobs, cmdline)
}

// Pop removes and returns the head command line, split into argv on
// whitespace (§4.13: "builds argv by splitting on whitespace"). Reports
// false if the queue is empty.
func (q *Queue) Pop() (argv []string, ok bool) {
	if len(q.jobs) == 0 {
		return nil, false
	}
	cmdline := q.jobs[0]
	q.jobs = q.jobs[1:]
	return strings.Fields(cmdline), true
}

// Empty reports whether the queue has no more jobs (§4.13: "draining it
// with no remaining ready tasks is the kernel's shutdown signal").
func (q *Queue) Empty() bool {
	return len(q.jobs) == 0
}

// Len reports the number of not-yet-started jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}
