// cmd/tangent/main.go: command-line tangent finder.
//
// Usage:
//
//	tangent -fcn 'x^2 + y^2 - 25' -x 5 -y 5 [-output decimal] [-latex] [-json] [-trace]
//
// Values not given as flags are prompted for on stdin.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tangent "github.com/njchilds90/gotangent"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "tangent:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tangent", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fcn := fs.String("fcn", "", "curve F(x, y), or f(x) for y = f(x)")
	x := fs.String("x", "", "x coordinate of the point")
	y := fs.String("y", "", "y coordinate of the point")
	output := fs.String("output", "exact", "exact or decimal")
	trace := fs.Bool("trace", false, "log candidate points of tangency")
	latex := fs.Bool("latex", false, "print LaTeX instead of plain text")
	asJSON := fs.Bool("json", false, "print the JSON report")
	budget := fs.Duration("budget", 10*time.Second, "wall-clock budget")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := bufio.NewScanner(stdin)
	prompt := func(dst *string, label string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprint(stdout, label)
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		*dst = strings.TrimSpace(in.Text())
		return nil
	}
	if err := prompt(fcn, "Enter function: "); err != nil {
		return err
	}
	if err := prompt(x, "Enter x value: "); err != nil {
		return err
	}
	if err := prompt(y, "Enter y value: "); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *trace {
		level = slog.LevelDebug
	}
	f := &tangent.Finder{
		Trace:  *trace,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
	ctx, cancel := context.WithTimeout(context.Background(), *budget)
	defer cancel()

	res, err := f.FindQuery(ctx, tangent.Query{Fcn: *fcn, X: *x, Y: *y, Output: *output})
	if err != nil {
		if res != nil {
			printDerivative(stdout, res, *latex)
		}
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report())
	}
	printDerivative(stdout, res, *latex)
	if len(res.Lines) == 0 {
		fmt.Fprintln(stdout, "No tangent line exists.")
		return nil
	}
	for _, l := range res.Lines {
		fmt.Fprintf(stdout, "Tangent point: %s\n", l.Point())
		if *latex {
			fmt.Fprintf(stdout, "%s = 0\n", l.Equation.LaTeX())
		} else {
			fmt.Fprintf(stdout, "%s = 0\n", l.Equation)
		}
	}
	return nil
}

func printDerivative(w io.Writer, res *tangent.Result, latex bool) {
	d := res.Derivative.String()
	if latex {
		d = res.Derivative.LaTeX()
	}
	fmt.Fprintf(w, "The derivative of y with respect to x is %s\n", d)
}
