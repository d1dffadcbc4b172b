package prompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	term := prompt.NewTerminal(console.New(&out, true), strings.NewReader("token\n  0xabc  \nlast"))
	ctx := context.Background()

	answer, err := term.Ask(ctx, "Send Native Token or ERC-20? (native/token):")
	require.NoError(t, err)
	assert.Equal(t, "token", answer)

	answer, err = term.Ask(ctx, "Enter token contract address:")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", answer)

	answer, err = term.Ask(ctx, "Enter token symbol (for display):")
	require.NoError(t, err)
	assert.Equal(t, "last", answer)

	_, err = term.Ask(ctx, "one too many")
	assert.ErrorIs(t, err, prompt.ErrNoAnswer)

	assert.Contains(t, out.String(), "Enter token contract address: ")
}

func TestTerminalCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	term := prompt.NewTerminal(console.New(&bytes.Buffer{}, true), strings.NewReader("x\n"))
	_, err := term.Ask(ctx, "?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScripted(t *testing.T) {
	s := prompt.NewScripted(nil, "native", "", "3")
	ctx := context.Background()

	answer, err := s.Ask(ctx, "kind")
	require.NoError(t, err)
	assert.Equal(t, "native", answer)

	answer, err = prompt.AskDefault(ctx, s, "gas limit", "100000")
	require.NoError(t, err)
	assert.Equal(t, "100000", answer)

	answer, err = prompt.AskDefault(ctx, s, "count", "1")
	require.NoError(t, err)
	assert.Equal(t, "3", answer)
	assert.Equal(t, 0, s.Remaining())

	_, err = s.Ask(ctx, "extra")
	assert.ErrorIs(t, err, prompt.ErrNoAnswer)
}

func TestParseScript(t *testing.T) {
	answers, err := prompt.ParseScript(strings.NewReader("# kind\nnative\n\n  5 \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"native", "", "5"}, answers)
}
