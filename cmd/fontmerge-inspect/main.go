// seehuhn.de/go/pdfmerge - merge the fonts of several PDF documents
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Fontmerge-inspect shows how the font merger sees a set of font files.
//
// For every font program the kind, the number of glyphs and the canonical
// key are shown.  A table then lists, for every pair of fonts, whether the
// glyph descriptions they share are close enough for merging.
//
// Usage:
//
//	fontmerge-inspect [-trace level] [-budget n] [-skip n] [-head] [-i] file...
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"seehuhn.de/go/pdfmerge"
)

func tracer() tracing.Trace {
	return tracing.Select("pdfmerge.inspect")
}

func main() {
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	budget := flag.Int("budget", 2, "number of differing bytes tolerated per glyph")
	skip := flag.Int("skip", 10, "number of leading glyph bytes which are not compared")
	headFirst := flag.Bool("head", false, "compare glyph descriptions from the start")
	interactive := flag.Bool("i", false, "start an interactive session")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	initDisplay()
	if err := initTracing(*tlevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opt := pdfmerge.DefaultOptions()
	opt.MismatchBudget = *budget
	opt.HeaderLen = *skip
	if *headFirst {
		opt.CompareDirection = pdfmerge.HeadFirst
	}

	intp := &Intp{opt: opt}
	for _, path := range flag.Args() {
		f, err := loadFont(path)
		if err != nil {
			pterm.Error.Printf("%s: %v\n", path, err)
			continue
		}
		intp.fonts = append(intp.fonts, f)
	}
	if len(intp.fonts) == 0 {
		os.Exit(2)
	}

	intp.printFonts()
	if len(intp.fonts) > 1 {
		intp.printCompat()
	}

	if *interactive {
		if err := intp.REPL(); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(3)
		}
	}
}

func initTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.pdfmerge":         level,
		"trace.pdfmerge.program": level,
		"trace.pdfmerge.inspect": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("error configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	l := tracing.LevelError
	switch level {
	case "Debug":
		l = tracing.LevelDebug
	case "Info":
		l = tracing.LevelInfo
	case "Error":
	default:
		return fmt.Errorf("invalid trace level: %s", level)
	}
	for _, key := range []string{"pdfmerge", "pdfmerge.program", "pdfmerge.inspect"} {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}

// initDisplay sets up pterm.  The message prefixes are only coloured
// when writing to a terminal.
func initDisplay() {
	info := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
	errStyle := pterm.NewStyle(pterm.BgRed, pterm.FgBlack)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		info, errStyle = pterm.NewStyle(), pterm.NewStyle()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: info,
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: errStyle,
	}
}
