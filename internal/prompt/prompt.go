// Package prompt abstracts the question/answer exchange with the operator so
// that a session can run against a terminal or against a prepared script.
package prompt

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/pkg/errors"
)

var ErrNoAnswer = errors.New("no answer available")

// Provider answers one question at a time, in the order they are asked.
type Provider interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Terminal reads answers line by line from an input stream, printing each
// question through the console first.
type Terminal struct {
	console *console.Console
	reader  *bufio.Reader
}

func NewTerminal(c *console.Console, in io.Reader) *Terminal {
	return &Terminal{
		console: c,
		reader:  bufio.NewReader(in),
	}
}

type readResult struct {
	line string
	err  error
}

// Ask prints the question and blocks until a line is read or ctx is done.
// A final line without newline is accepted; EOF with no data is ErrNoAnswer.
func (t *Terminal) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.console.Prompt(question)

	ch := make(chan readResult, 1)
	go func() {
		line, err := t.reader.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return strings.TrimSpace(res.line), nil
			}
			if errors.Is(res.err, io.EOF) {
				return "", ErrNoAnswer
			}
			return "", errors.Wrap(res.err, "failed to read answer")
		}
		return strings.TrimSpace(res.line), nil
	}
}

// Scripted replays a fixed list of answers. Each question is echoed to the
// console (when one is set) together with its answer.
type Scripted struct {
	console *console.Console
	answers []string
	next    int
}

func NewScripted(c *console.Console, answers ...string) *Scripted {
	return &Scripted{
		console: c,
		answers: answers,
	}
}

// ParseScript reads one answer per line. Lines starting with '#' are
// comments; empty lines are kept since they select defaults.
func ParseScript(r io.Reader) ([]string, error) {
	var answers []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		answers = append(answers, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read answers")
	}

	return answers, nil
}

func (s *Scripted) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if s.next >= len(s.answers) {
		return "", errors.Wrapf(ErrNoAnswer, "question %q", question)
	}

	answer := strings.TrimSpace(s.answers[s.next])
	s.next++

	if s.console != nil {
		s.console.Prompt(question)
		s.console.Info("%s", answer)
	}

	return answer, nil
}

// Remaining reports how many scripted answers have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.answers) - s.next
}

// AskDefault asks a question and substitutes def for a blank answer.
func AskDefault(ctx context.Context, p Provider, question, def string) (string, error) {
	answer, err := p.Ask(ctx, question)
	if err != nil {
		return "", err
	}

	if answer == "" {
		return def, nil
	}

	return answer, nil
}
