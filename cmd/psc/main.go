package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"

	proofscript "github.com/proofscript/proofscript"
)

const (
	appName     = "psc"
	historyFile = ".proofscript_history"
	promptMain  = "psc> "
)

var banner = fmt.Sprintf("ProofScript %s lexer REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", proofscript.Version)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "lex":
		os.Exit(cmdLex(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(proofscript.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [arguments]

Commands:
  lex [-v] <file>   tokenize a source file and print the tokens
  repl              tokenize lines interactively
  version           print the front-end version
`, appName)
}

func cmdLex(args []string) int {
	fs := flag.NewFlagSet("lex", flag.ExitOnError)
	verbose := fs.Bool("v", false, "dump full token structures")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		return 2
	}
	path := fs.Arg(0)

	sc, err := proofscript.NewScanner(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	defer sc.Close()

	for _, tok := range sc.ScanAll() {
		if *verbose {
			fmt.Print(spew.Sdump(tok))
		} else {
			fmt.Println(colorize(tok))
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	if sc.Errors.Len() > 0 {
		src, _ := os.ReadFile(path)
		for _, e := range sc.Errors.All() {
			fmt.Fprintln(os.Stderr, red(proofscript.WrapErrorWithSource(e, string(src)).Error()))
		}
		return 1
	}
	return 0
}

func cmdRepl() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := filepath.Join(homeDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(banner)
	for {
		line, err := ln.Prompt(promptMain)
		switch err {
		case nil:
		case liner.ErrPromptAborted:
			continue
		case io.EOF:
			fmt.Println()
			return 0
		default:
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return 0
		}
		ln.AppendHistory(line)
		lexLine(line)
	}
}

func lexLine(line string) {
	sc, err := proofscript.NewScannerFromReader(strings.NewReader(line), "<repl>")
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return
	}
	for _, tok := range sc.ScanAll() {
		fmt.Println(colorize(tok))
	}
	for _, e := range sc.Errors.All() {
		fmt.Fprintln(os.Stderr, red(proofscript.WrapErrorWithSource(e, line).Error()))
	}
}

// colorize renders one token per line: positions dim, keywords green,
// identifiers and literals blue, trouble red.
func colorize(tok *proofscript.Token) string {
	pos := fmt.Sprintf("%s:%d:%d:", tok.File, tok.Line, tok.Col)
	body := fmt.Sprintf("%-10s %q", tok.Kind, tok.Text)
	switch {
	case tok.Kind == proofscript.KindBad:
		return pos + " " + red(body)
	case tok.Kind == proofscript.KindIdent,
		tok.Kind == proofscript.KindNumber,
		tok.Kind == proofscript.KindString:
		return pos + " " + blue(body)
	case tok.Kind == proofscript.KindEOF:
		return pos + " " + body
	default:
		return pos + " " + green(body)
	}
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
