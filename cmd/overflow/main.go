// Copyright 2025 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Overflow rewrites Go packages so their integer arithmetic carries an
// explicit overflow policy: wrap, panic or saturate. Native operators on
// plain integer types become calls into github.com/safenum/overflow,
// which implements the chosen behavior.
//
// Usage:
//
//	overflow [-w | -d | -l] [-policy name] [-config file] [packages]
//
// With no flags the rewritten source of every changed file is printed to
// standard output. The flags are:
//
//	-w	write each rewritten file in place
//	-d	print unified diffs instead of rewritten source
//	-l	print the names of files that would change
//	-policy name
//		policy for code without an //overflow: directive
//	-config file
//		YAML policy configuration (default .overflow.yaml if present)
//	-v	enable debug logging
//
// Scope is controlled three ways, most specific first: an //overflow:
// directive on a function, an //overflow: directive above the package
// clause of a file, and per-import-path rules in the config. With no
// policy in effect anywhere, files are left untouched.
//
// The exit status is 1 when -l or -d finds files that would change, and
// 2 for usage, load and rewrite errors.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/safenum/overflow/internal/atomicfile"
	"github.com/safenum/overflow/rewrite"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

func run(stdout, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("overflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		write   = fs.Bool("w", false, "write rewritten files in place")
		diff    = fs.Bool("d", false, "print unified diffs instead of rewritten source")
		list    = fs.Bool("l", false, "print the names of files that would change")
		policy  = fs.String("policy", "", "`name` of the policy for code without a directive")
		cfgPath = fs.String("config", "", "policy configuration `file`")
		verbose = fs.Bool("v", false, "enable debug logging")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: overflow [flags] [packages]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	log := newLogger(stderr, *verbose)

	var opts rewrite.Options
	if *policy != "" {
		p, err := rewrite.ParsePolicy(*policy)
		if err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
		opts.Policy = p
	}
	path := *cfgPath
	if path == "" {
		if _, err := os.Stat(".overflow.yaml"); err == nil {
			path = ".overflow.yaml"
		}
	}
	if path != "" {
		cfg, err := rewrite.LoadConfig(path)
		if err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
		opts.Config = cfg
		log.Debug().Str("config", path).Msg("loaded policy configuration")
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	start := time.Now()
	pkgs, err := packages.Load(&packages.Config{Mode: rewrite.LoadMode, Tests: true}, patterns...)
	if err != nil {
		fmt.Fprintln(stderr, "overflow:", err)
		return 2
	}
	if packages.PrintErrors(pkgs) > 0 {
		return 2
	}
	log.Debug().
		Int("packages", len(pkgs)).
		Dur("elapsed", time.Since(start)).
		Msg("loaded")

	results := make([][]*rewrite.File, len(pkgs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		g.Go(func() error {
			files, err := rewrite.Package(pkg, opts)
			results[i] = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(stderr, "overflow:", err)
		return 2
	}

	changed := false
	seen := make(map[string]bool)
	for i, pkg := range pkgs {
		for _, f := range results[i] {
			if seen[f.Name] {
				continue // test variants repeat the non-test files
			}
			seen[f.Name] = true
			for _, n := range f.Notes {
				log.Warn().Stringer("pos", n.Pos).Msg(n.Reason)
			}
			if !f.Changed {
				continue
			}
			changed = true
			if code := emit(stdout, stderr, pkg, f, *write, *diff, *list); code != 0 {
				return code
			}
		}
	}
	if (*list || *diff) && !*write && changed {
		return 1
	}
	return 0
}

// emit delivers one rewritten file according to the output flags.
func emit(stdout, stderr io.Writer, pkg *packages.Package, f *rewrite.File, write, diff, list bool) int {
	src, err := f.Source(pkg.Fset)
	if err != nil {
		fmt.Fprintln(stderr, "overflow:", err)
		return 2
	}
	if list {
		fmt.Fprintln(stdout, f.Name)
	}
	if diff {
		orig, err := os.ReadFile(f.Name)
		if err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(orig)),
			B:        difflib.SplitLines(string(src)),
			FromFile: f.Name,
			ToFile:   f.Name + " (rewritten)",
			Context:  3,
		})
		if err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
		fmt.Fprint(stdout, text)
	}
	if write {
		info, err := os.Stat(f.Name)
		if err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
		if err := atomicfile.Write(f.Name, src, info.Mode().Perm()); err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
	}
	if !write && !diff && !list {
		if _, err := stdout.Write(src); err != nil {
			fmt.Fprintln(stderr, "overflow:", err)
			return 2
		}
	}
	return 0
}

func newLogger(stderr io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := stderr
	if f, ok := stderr.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
