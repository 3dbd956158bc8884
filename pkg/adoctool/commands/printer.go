// SPDX-License-Identifier: AGPL-3.0-only

package commands

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type Printer interface {
	PrintLine(line string)
}

// StdoutPrinter writes each line to an io.Writer, os.Stdout by default.
type StdoutPrinter struct {
	mtx sync.Mutex
	Out io.Writer
}

func (p *StdoutPrinter) PrintLine(line string) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, line)
}

// BufferedPrinter keeps the printed lines in memory.
type BufferedPrinter struct {
	mtx   sync.Mutex
	Lines []string
}

func (p *BufferedPrinter) PrintLine(line string) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.Lines = append(p.Lines, line)
}

func (p *BufferedPrinter) Reset() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.Lines = nil
}
