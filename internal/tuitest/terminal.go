package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries are the capability probes Bubble Tea and lipgloss send at
// start-up, each paired with the answer a dark xterm would give.
var terminalQueries = []struct {
	query, reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

const (
	responderMaxBuffer = 256
	responderKeepTail  = 64
)

// terminalResponder answers probes found in the program output so it does
// not stall waiting for a real terminal.
type terminalResponder struct {
	w       io.Writer
	pending []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, pending: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for tr.answerNext() {
	}
	// Probes can straddle reads, so a short tail survives trimming.
	if len(tr.pending) > responderMaxBuffer {
		tr.pending = tr.pending[len(tr.pending)-responderKeepTail:]
	}
}

// answerNext replies to the first known probe in the buffer, in table order.
func (tr *terminalResponder) answerNext() bool {
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.pending, q.query)
		if idx < 0 {
			continue
		}
		tr.pending = tr.pending[idx+len(q.query):]
		_, _ = tr.w.Write(q.reply)
		return true
	}
	return false
}
