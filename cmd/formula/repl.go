package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/zephyrtronium/formula"
)

const (
	newprompt    = "\033[32m>\033[0m "
	resultprompt = "\033[31m=\033[0m "
)

// repl reads expressions from the terminal and prints their values. A line of
// the form "name = expression" also sets the variable name. The last result
// is available as ans.
func repl[T any](ev *formula.Evaluator[T], verb string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		r, err := replLine(ev, line)
		if err != nil {
			fmt.Fprintln(l.Stderr(), err)
			continue
		}
		if r == nil {
			continue
		}
		fmt.Fprintf(l.Stdout(), resultprompt+verb, *r)
	}
}

// replLine evaluates one line of interactive input. The result is nil for
// blank lines.
func replLine[T any](ev *formula.Evaluator[T], line string) (*T, error) {
	name, text, def := definition(line)
	if !def {
		text = line
	}
	if isBlank(text) {
		return nil, nil
	}
	r, err := ev.EvalText(text)
	if err != nil {
		return nil, err
	}
	if def {
		ev.Set(name, r)
	}
	ev.Set("ans", r)
	return &r, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}
	return true
}
