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

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"seehuhn.de/go/pdfmerge"
)

// Intp is the interpreter for the interactive mode.
type Intp struct {
	opt   *pdfmerge.Options
	fonts []*fontFile
	repl  *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() error {
	repl, err := readline.New("fontmerge> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp.repl = repl

	pterm.Info.Println("Type 'help' for a list of commands")
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		cmd, ok := commands[strings.ToLower(args[0])]
		if !ok {
			pterm.Error.Printf("unknown command %q\n", args[0])
			continue
		}
		quit, err := cmd.fn(intp, args[1:])
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
	return nil
}

type command struct {
	usage string
	help  string
	fn    func(*Intp, []string) (bool, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"list":   {"list", "show the loaded fonts", listOp},
		"key":    {"key <n>", "show the canonical key of font n", keyOp},
		"compat": {"compat <a> <b>", "compare the glyphs of fonts a and b", compatOp},
		"glyph":  {"glyph <n> <name>", "dump a glyph description", glyphOp},
		"budget": {"budget <k>", "set the mismatch budget", budgetOp},
		"help":   {"help", "show this text", helpOp},
		"quit":   {"quit", "leave interactive mode", quitOp},
	}
}

var errUsage = errors.New("wrong number of arguments")

func listOp(intp *Intp, args []string) (bool, error) {
	intp.printFonts()
	return false, nil
}

func keyOp(intp *Intp, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	f, err := intp.font(args[0])
	if err != nil {
		return false, err
	}
	key, ok := pdfmerge.CanonicalKey(f.res)
	if !ok {
		pterm.Printf("%s has no canonical key\n", f.name())
		return false, nil
	}
	pterm.Printf("%s: %s\n", f.name(), key)
	return false, nil
}

func compatOp(intp *Intp, args []string) (bool, error) {
	if len(args) != 2 {
		return false, errUsage
	}
	a, err := intp.font(args[0])
	if err != nil {
		return false, err
	}
	b, err := intp.font(args[1])
	if err != nil {
		return false, err
	}

	data := [][]string{{"glyph", a.name(), b.name(), "status"}}
	shared := 0
	for _, name := range sortedNames(a.glyphs) {
		gb, ok := b.glyphs[name]
		if !ok {
			continue
		}
		shared++
		ga := a.glyphs[name]
		status := "ok"
		single := map[string][]byte{name: ga}
		if !pdfmerge.GlyphDataCompatible(single, map[string][]byte{name: gb}, intp.opt) {
			status = "differs"
		}
		data = append(data, []string{name, strconv.Itoa(len(ga)), strconv.Itoa(len(gb)), status})
	}
	if shared == 0 {
		pterm.Printf("%s and %s share no glyphs\n", a.name(), b.name())
		return false, nil
	}
	return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func glyphOp(intp *Intp, args []string) (bool, error) {
	if len(args) != 2 {
		return false, errUsage
	}
	f, err := intp.font(args[0])
	if err != nil {
		return false, err
	}
	g, ok := f.glyphs[args[1]]
	if !ok {
		return false, fmt.Errorf("%s has no glyph %q", f.name(), args[1])
	}
	pterm.Print(hex.Dump(g))
	return false, nil
}

func budgetOp(intp *Intp, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return false, err
	}
	intp.opt.MismatchBudget = k
	tracer().Infof("mismatch budget set to %d", k)
	return false, nil
}

func helpOp(intp *Intp, args []string) (bool, error) {
	data := [][]string{{"command", "description"}}
	for _, name := range sortedNames(commands) {
		c := commands[name]
		data = append(data, []string{c.usage, c.help})
	}
	return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func quitOp(intp *Intp, args []string) (bool, error) {
	return true, nil
}

// font returns the font with the given 1-based index.
func (intp *Intp) font(arg string) (*fontFile, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(intp.fonts) {
		return nil, fmt.Errorf("invalid font number %q", arg)
	}
	return intp.fonts[n-1], nil
}
