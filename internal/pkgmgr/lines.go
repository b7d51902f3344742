package pkgmgr

import (
	"bytes"
	"strings"
)

// lineSplitter is an io.Writer that hands every complete, non-blank line to
// emit. Carriage returns end a line too, since progress bars redraw with \r.
type lineSplitter struct {
	buf  []byte
	emit func(string)
}

func (s *lineSplitter) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	for {
		idx := bytes.IndexAny(s.buf, "\r\n")
		if idx < 0 {
			break
		}
		line := string(s.buf[:idx])
		s.buf = s.buf[idx+1:]
		s.send(line)
	}
	return len(p), nil
}

// Flush emits a trailing line without terminator.
func (s *lineSplitter) Flush() {
	if len(s.buf) > 0 {
		line := string(s.buf)
		s.buf = nil
		s.send(line)
	}
}

func (s *lineSplitter) send(line string) {
	line = strings.TrimSpace(line)
	if line != "" {
		s.emit(line)
	}
}

// tail keeps the last n lines seen.
type tail struct {
	n     int
	lines []string
}

func (t *tail) add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

func (t *tail) String() string {
	return strings.Join(t.lines, "\n")
}
