// Package unitfile edits an installed systemd unit as opaque text: literal
// token substitution plus a read-only view of its Environment= lines.
package unitfile

import (
	"bufio"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Store abstracts the unit file so the substitution logic can run against
// memory in tests.
type Store interface {
	Path() string
	Read() ([]byte, error)
	Write(data []byte) error
}

type store struct{ path string }

// New returns a filesystem-backed store for the unit at path.
func New(path string) Store { return &store{path: path} }

func (s *store) Path() string { return s.path }

func (s *store) Read() ([]byte, error) { return os.ReadFile(s.path) }

// Write truncates and rewrites the existing file in place. It never creates
// the file, and the file keeps its mode and owner.
func (s *store) Write(data []byte) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Result describes one substitution pass over the unit file.
type Result struct {
	Path        string `json:"path" yaml:"path"`
	Token       string `json:"token" yaml:"token"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`
	BeforeSum   uint64 `json:"before_sum" yaml:"before_sum"`
	AfterSum    uint64 `json:"after_sum" yaml:"after_sum"`
}

// Changed reports whether the pass altered the file contents.
func (r Result) Changed() bool { return r.BeforeSum != r.AfterSum }

// Substitute replaces every literal occurrence of token in contents with
// replacement and returns the new text and the number of replacements.
func Substitute(contents, token, replacement string) (string, int) {
	if token == "" {
		return contents, 0
	}
	return strings.ReplaceAll(contents, token, replacement), strings.Count(contents, token)
}

// SubstituteIdempotent is Substitute for a replacement that contains token,
// such as an absolute path ending in the token's file name. Occurrences
// that already sit inside a full copy of replacement are kept, so applying
// it twice gives the same text.
func SubstituteIdempotent(contents, token, replacement string) (string, int) {
	if token == "" || token == replacement {
		return contents, 0
	}
	if !strings.Contains(replacement, token) {
		return Substitute(contents, token, replacement)
	}

	pieces := strings.Split(contents, replacement)
	n := 0
	for i, p := range pieces {
		n += strings.Count(p, token)
		pieces[i] = strings.ReplaceAll(p, token, replacement)
	}
	return strings.Join(pieces, replacement), n
}

// ReplaceAll reads the unit, substitutes token and writes it back. The
// write happens even when nothing matched.
func ReplaceAll(s Store, token, replacement string) (Result, error) {
	return rewrite(s, token, replacement, Substitute)
}

// ReplaceAllIdempotent is ReplaceAll using SubstituteIdempotent.
func ReplaceAllIdempotent(s Store, token, replacement string) (Result, error) {
	return rewrite(s, token, replacement, SubstituteIdempotent)
}

func rewrite(s Store, token, replacement string, sub func(contents, token, replacement string) (string, int)) (Result, error) {
	res := Result{Path: s.Path(), Token: token, Replacement: replacement}

	before, err := s.Read()
	if err != nil {
		return res, err
	}
	after, n := sub(string(before), token, replacement)

	res.Occurrences = n
	res.BeforeSum = xxhash.Sum64(before)
	res.AfterSum = xxhash.Sum64String(after)

	if err := s.Write([]byte(after)); err != nil {
		return res, err
	}
	return res, nil
}

// EnvValue returns the value assigned to key by the unit's Environment=
// lines. Later assignments win, as they do for systemd.
func EnvValue(contents, key string) (string, bool) {
	var (
		value string
		found bool
	)
	sc := bufio.NewScanner(strings.NewReader(contents))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "Environment=")
		if !ok {
			continue
		}
		for _, field := range strings.Fields(rest) {
			field = strings.Trim(field, `"'`)
			if v, ok := strings.CutPrefix(field, key+"="); ok {
				value, found = v, true
			}
		}
	}
	return value, found
}
