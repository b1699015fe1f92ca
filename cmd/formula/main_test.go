package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/formula"
)

func discard() slog.Handler {
	return slog.NewTextHandler(&bytes.Buffer{}, nil)
}

func TestRunExprs(t *testing.T) {
	cases := []struct {
		name string
		o    options
		in   string
		out  string
	}{
		{
			name: "args",
			o:    options{verb: "%g", args: []string{"1 + 2 * 3", "(1 + 2) * 3"}},
			out:  "7\n9\n",
		},
		{
			name: "stdin",
			o:    options{verb: "%g"},
			in:   "max(1, 3,\n 2)\n",
			out:  "3\n",
		},
		{
			name: "lines",
			o:    options{verb: "%g", nl: true},
			in:   "1+1\n\n2*x\n",
			out:  "2\n3: undefined variable: \"x\"\n",
		},
		{
			name: "given",
			o:    options{verb: "%.2f", with: [][2]string{{"x", "2"}, {"y", "x * pi"}}, args: []string{"y / x"}},
			out:  "3.14\n",
		},
		{
			name: "error",
			o:    options{verb: "%g", args: []string{"10+", "4"}},
			out:  "4: unexpected end of expression\n4\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), formula.Float64, &c.o, strings.NewReader(c.in), &out, discard())
			require.NoError(t, err)
			require.Equal(t, c.out, out.String())
		})
	}
}

func TestRunBig(t *testing.T) {
	var out bytes.Buffer
	o := options{verb: "%.30f", args: []string{"1/3"}}
	err := run(context.Background(), formula.Big(128), &o, nil, &out, discard())
	require.NoError(t, err)
	require.Equal(t, "0.333333333333333333333333333333\n", out.String())
}

func TestRunGivenError(t *testing.T) {
	o := options{verb: "%g", with: [][2]string{{"x", "y + 1"}}, args: []string{"x"}}
	err := run(context.Background(), formula.Float64, &o, nil, &bytes.Buffer{}, discard())
	require.Error(t, err)
	require.Contains(t, err.Error(), "setting x")
}

func TestRunSheet(t *testing.T) {
	in := `
# rectangle
area = w * h
perimeter = 2 * (w + h)
`
	var out bytes.Buffer
	o := options{verb: "%g", sheet: true, with: [][2]string{{"w", "3"}, {"h", "4"}}}
	err := run(context.Background(), formula.Float64, &o, strings.NewReader(in), &out, discard())
	require.NoError(t, err)
	require.Equal(t, "area = 12\nperimeter = 14\n", out.String())

	o.sheet = true
	err = run(context.Background(), formula.Float64, &o, strings.NewReader("a = 1\nb = nope"), &out, discard())
	require.Error(t, err)
	require.Contains(t, err.Error(), `"b"`)
}

func TestParseSheet(t *testing.T) {
	sheet, err := parseSheet(strings.NewReader("a = 1\n  # comment\n\nb2 = a + 1 = 2\nc=\n"))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b2": "a + 1 = 2", "c": ""}, sheet)

	bad := []string{
		"a + 1",
		"= 1",
		"2a = 1",
		"a b = 1",
		"a = 1\na = 2",
	}
	for _, src := range bad {
		_, err := parseSheet(strings.NewReader(src))
		require.Error(t, err, "parsing %q", src)
		require.Contains(t, err.Error(), "line ")
	}
}

func TestValidName(t *testing.T) {
	require.True(t, validName("x"))
	require.True(t, validName("x2"))
	require.True(t, validName("π"))
	require.False(t, validName(""))
	require.False(t, validName("2x"))
	require.False(t, validName("x_y"))
	require.False(t, validName("x y"))
}

func TestReplLine(t *testing.T) {
	ev, err := formula.New("", nil)
	require.NoError(t, err)

	r, err := replLine(ev, "   ")
	require.NoError(t, err)
	require.Nil(t, r)

	r, err = replLine(ev, "x = 2 * 3")
	require.NoError(t, err)
	require.Equal(t, 6.0, *r)

	r, err = replLine(ev, "x + ans")
	require.NoError(t, err)
	require.Equal(t, 12.0, *r)

	_, err = replLine(ev, "y")
	require.Error(t, err)
	v, ok := ev.Lookup("ans")
	require.True(t, ok)
	require.Equal(t, 12.0, v)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.txt")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, slog.New(discard()), func() error {
			reloads.Add(1)
			return nil
		})
	}()
	// The watch may not be registered yet, so keep writing until it notices.
	for reloads.Load() == 0 && ctx.Err() == nil {
		require.NoError(t, os.WriteFile(path, []byte("a = 2\n"), 0o644))
		time.Sleep(50 * time.Millisecond)
	}
	require.NotZero(t, reloads.Load())
	cancel()
	require.NoError(t, <-done)
}
