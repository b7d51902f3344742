package selector

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_Lines(t *testing.T) {
	lr := NewLineReader(strings.NewReader("one\r\ntwo\nthree"))
	ctx := context.Background()

	for _, want := range []string{"one", "two", "three"} {
		got, err := lr.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := lr.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = lr.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF, "EOF is sticky")
}

func TestLineReader_CancelKeepsPendingLine(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := NewLineReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := lr.ReadLine(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = pw.Write([]byte("late\n")) }()

	got, err := lr.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", got)
}

func TestLineReader_Prompt(t *testing.T) {
	lr := NewLineReader(strings.NewReader("  3  \n"))
	var out bytes.Buffer

	got, err := lr.Prompt(context.Background(), &out, "Pick: ")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Equal(t, "Pick: ", out.String())
}
