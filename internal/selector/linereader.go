package selector

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// LineReader reads lines from an input stream and honours context
// cancellation. Reads happen only on demand, so a terminal program started
// between two ReadLine calls owns the input undisturbed.
//
// A read abandoned by cancellation stays pending and its line is returned by
// the next ReadLine. Every consumer of one stream must share one LineReader.
type LineReader struct {
	br      *bufio.Reader
	mu      sync.Mutex
	pending chan lineResult
	eof     bool
}

type lineResult struct {
	line string
	err  error
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line ending. It returns
// io.EOF at end of input and ctx.Err() when ctx is done first.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	lr.mu.Lock()
	if lr.eof {
		lr.mu.Unlock()
		return "", io.EOF
	}
	if lr.pending == nil {
		ch := make(chan lineResult, 1)
		lr.pending = ch
		go func() {
			line, err := lr.br.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}
	ch := lr.pending
	lr.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		lr.mu.Lock()
		defer lr.mu.Unlock()
		lr.pending = nil

		line := strings.TrimRight(res.line, "\r\n")
		if res.err != nil {
			lr.eof = true
			if res.err == io.EOF && line != "" {
				return line, nil
			}
			return "", res.err
		}
		return line, nil
	}
}

// Prompt writes prompt to w and reads one trimmed line.
func (lr *LineReader) Prompt(ctx context.Context, w io.Writer, prompt string) (string, error) {
	if _, err := io.WriteString(w, prompt); err != nil {
		return "", err
	}
	line, err := lr.ReadLine(ctx)
	return strings.TrimSpace(line), err
}
