package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("p", "same\n", "same\n"))

	d := Diff("p", "", "new line\n")
	assert.True(t, strings.HasPrefix(d, "--- p\n+++ p (proposed)\n"))
	assert.Contains(t, d, "+new line\n")

	var old, proposed []string
	for i := 0; i < 20; i++ {
		old = append(old, "line")
		proposed = append(proposed, "line")
	}
	old[2], proposed[2] = "old-a", "new-a"
	old[17], proposed[17] = "old-b", "new-b"

	d = Diff("p", strings.Join(old, "\n")+"\n", strings.Join(proposed, "\n")+"\n")
	assert.Contains(t, d, "-old-a\n+new-a\n")
	assert.Contains(t, d, "-old-b\n+new-b\n")
	assert.Equal(t, 2, strings.Count(d, "@@\n"), "distant changes form separate hunks")
	assert.Less(t, strings.Count(d, " line\n"), 20, "unchanged runs are trimmed to context")
}
