package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/zephyrtronium/formula"
)

// options holds the command line settings.
type options struct {
	inname, verb string
	with         [][2]string
	args         []string
	nl           bool
	sheet        bool
	watch        bool
	interactive  bool
	prec         int
}

func main() {
	log.SetFlags(0)
	var (
		o       options
		verbose bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with := [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])}
		if !validName(with[0]) {
			return fmt.Errorf("invalid variable name %q", with[0])
		}
		o.with = append(o.with, with)
		return nil
	}
	flag.StringVar(&o.inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&o.verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&o.prec, "p", 0, "precision of calculations in bits (default: float64)")
	flag.BoolVar(&o.nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&o.sheet, "sheet", false, "input is lines of name = expression to evaluate together")
	flag.BoolVar(&o.watch, "watch", false, "with -sheet and -in, evaluate the sheet again whenever the file changes")
	flag.BoolVar(&o.interactive, "i", false, "read expressions interactively")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()
	if o.prec < 0 {
		log.Fatalf("precision (%d) must be positive", o.prec)
	}
	if o.watch && (!o.sheet || o.inname == "" || o.inname == "-") {
		log.Fatal("-watch requires -sheet and an input file")
	}
	o.args = flag.Args()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var err error
	if o.prec > 0 {
		err = run(ctx, formula.Big(uint(o.prec)), &o, os.Stdin, os.Stdout, h)
	} else {
		err = run(ctx, formula.Float64, &o, os.Stdin, os.Stdout, h)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// run executes the command with numbers of type T.
func run[T any](ctx context.Context, a formula.Arith[T], o *options, stdin io.Reader, stdout io.Writer, h slog.Handler) error {
	ev, err := formula.NewEvaluator(a, "", nil, formula.WithLogger(h))
	if err != nil {
		return err
	}
	// Definitions are evaluated in order, so later ones may use earlier ones.
	for _, d := range o.with {
		r, err := ev.EvalText(d[1])
		if err != nil {
			return fmt.Errorf("setting %s: %w", d[0], err)
		}
		ev.Set(d[0], r)
	}
	verb := o.verb + "\n"

	if o.interactive {
		return repl(ev, verb)
	}

	if o.sheet {
		eval := func() error {
			f, err := infile(o.inname, stdin, true)
			if err != nil {
				return err
			}
			defer f.Close()
			return evalSheet(ev, f, stdout, verb)
		}
		if err := eval(); err != nil {
			return err
		}
		if o.watch {
			return watch(ctx, o.inname, slog.New(h), func() error {
				fmt.Fprintln(stdout)
				return eval()
			})
		}
		return nil
	}

	var texts []string
	f, err := infile(o.inname, stdin, len(o.args) == 0)
	if err != nil {
		return err
	}
	if f != nil {
		defer f.Close()
		in, err := readExprs(f, o.nl)
		if err != nil {
			return err
		}
		texts = append(texts, in...)
	}
	texts = append(texts, o.args...)
	for _, text := range texts {
		r, err := ev.EvalText(text)
		if err != nil {
			fmt.Fprintln(stdout, err)
			continue
		}
		fmt.Fprintf(stdout, verb, r)
	}
	return nil
}

// readExprs reads expressions from r, either one per non-blank line or the
// entire input as one.
func readExprs(r io.Reader, lines bool) ([]string, error) {
	if !lines {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	}
	var texts []string
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		if strings.TrimSpace(scan.Text()) == "" {
			continue
		}
		texts = append(texts, scan.Text())
	}
	return texts, scan.Err()
}

// infile opens the input named by inname. If inname is "-", or it is empty
// and std is true, the input is stdin. The result is nil when there is no
// input.
func infile(inname string, stdin io.Reader, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return f, nil
	case inname == "-", std:
		if stdin == nil {
			return nil, errors.New("no standard input")
		}
		return io.NopCloser(stdin), nil
	}
	return nil, nil
}
