package profile

import "strings"

// Managed block markers.
const (
	BeginMarker = "# >>> devboot managed >>>"
	EndMarker   = "# <<< devboot managed <<<"
)

// MergeManaged returns content with lines added to its managed block and the
// number of lines added. Lines already present anywhere in content (compared
// without surrounding whitespace) are skipped, so merging twice is a no-op.
// Without a block, one is appended at the end.
func MergeManaged(content string, lines []string) (string, int) {
	present := make(map[string]bool)
	for _, l := range strings.Split(content, "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var add []string
	for _, l := range lines {
		key := strings.TrimSpace(l)
		if key == "" || present[key] {
			continue
		}
		present[key] = true
		add = append(add, l)
	}
	if len(add) == 0 {
		return content, 0
	}

	block := strings.Join(add, "\n") + "\n"

	if begin := strings.Index(content, BeginMarker); begin >= 0 {
		if end := strings.Index(content[begin:], EndMarker); end >= 0 {
			at := begin + end
			return content[:at] + block + content[at:], len(add)
		}
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	if content != "" {
		b.WriteString("\n")
	}
	b.WriteString(BeginMarker + "\n")
	b.WriteString(block)
	b.WriteString(EndMarker + "\n")
	return b.String(), len(add)
}
