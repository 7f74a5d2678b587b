package installer

import (
	"errors"
	"io"
	"regexp"
	"strings"
)

// Prompter abstracts interactive terminal I/O for testability.
type Prompter interface {
	// ReadLine displays the prompt and reads a line of input.
	ReadLine(prompt string) (string, error)
}

var affirmativeRE = regexp.MustCompile(`^[Yy]([Ee][Ss])?$`)

// IsAffirmative reports whether answer is a yes. Everything else,
// including an empty line, is a no.
func IsAffirmative(answer string) bool {
	return affirmativeRE.MatchString(strings.TrimSpace(answer))
}

// askYesNo asks a yes/no question. End of input counts as "no".
func askYesNo(p Prompter, question string) (bool, error) {
	answer, err := p.ReadLine(question + " [y/N] ")
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// askValue reads a free-text value. The value is taken verbatim apart from
// surrounding whitespace.
func askValue(p Prompter, label string) (string, error) {
	v, err := p.ReadLine(label + ": ")
	if err != nil {
		if errors.Is(err, io.EOF) && v != "" {
			return strings.TrimSpace(v), nil
		}
		return "", err
	}
	return strings.TrimSpace(v), nil
}
