package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/zephyrtronium/formula"
)

// parseSheet reads named expressions, one "name = expression" per line. Blank
// lines and lines starting with # are ignored.
func parseSheet(r io.Reader) (map[string]string, error) {
	sheet := make(map[string]string)
	scan := bufio.NewScanner(r)
	for n := 1; scan.Scan(); n++ {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, text, ok := definition(line)
		if !ok {
			return nil, fmt.Errorf("line %d: expected name = expression, got %q", n, line)
		}
		if _, dup := sheet[name]; dup {
			return nil, fmt.Errorf("line %d: %s defined more than once", n, name)
		}
		sheet[name] = text
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// definition splits a line of the form "name = expression".
func definition(line string) (name, text string, ok bool) {
	name, text, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if !validName(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(text), true
}

// validName returns whether s would lex as a single identifier.
func validName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != ""
}

// evalSheet evaluates a sheet and prints its results in order of name.
func evalSheet[T any](ev *formula.Evaluator[T], r io.Reader, w io.Writer, verb string) error {
	sheet, err := parseSheet(r)
	if err != nil {
		return err
	}
	res, err := ev.EvalNamed(sheet)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(res))
	for name := range res {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s = "+verb, name, res[name])
	}
	return nil
}
