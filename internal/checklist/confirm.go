package checklist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DeletePrompt is the question asked before a delete is issued.
const DeletePrompt = "Do you want to delete this todo?"

// Confirmer is a blocking yes/no decision taken before a destructive write.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// AlwaysConfirm accepts every prompt.
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	// NeverConfirm declines every prompt.
	NeverConfirm Confirmer = ConfirmFunc(func(string) bool { return false })
)

// PromptConfirmer asks on Out and reads a y/N answer from In.
// Anything but "y" or "yes" declines, including EOF.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

func (p *PromptConfirmer) Confirm(prompt string) bool {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "%s [y/N] ", prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
