package prompt

import (
	"os"
	"strings"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("stdin is not a terminal")

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadSecret prompts for a value without echoing it back.
func ReadSecret(c *console.Console, question string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	c.Prompt(question)
	b, err := term.ReadPassword(fd)
	_, _ = os.Stdout.WriteString("\n")
	if err != nil {
		return "", errors.Wrap(err, "failed to read secret")
	}

	return strings.TrimSpace(string(b)), nil
}
