// =============================================================================
// t4bulk - Prompts
// =============================================================================
//
// This package asks the operator named questions on the terminal.
//
// =============================================================================

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoAnswer is returned when a required question reaches end of input
// without an answer.
var ErrNoAnswer = errors.New("no answer given")

// Question is a single named question.
type Question struct {
	Name        string
	Description string
	Required    bool
}

// Prompter reads answers line by line from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask asks each question in turn and returns the answers keyed by name.
// Required questions are repeated until a non-empty answer is given.
func (p *Prompter) Ask(questions ...Question) (map[string]string, error) {
	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		answer, err := p.askOne(q)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.Name, err)
		}
		answers[q.Name] = answer
	}
	return answers, nil
}

func (p *Prompter) askOne(q Question) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", q.Description)

		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer != "" || !q.Required {
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			return answer, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrNoAnswer
			}
			return "", err
		}
		fmt.Fprintf(p.out, "%s is required.\n", q.Name)
	}
}
