package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/tommyettinger/celadon"
	"github.com/tommyettinger/celadon/lexer"
)

const (
	historyFile = ".celadon_history"
	promptMain  = "celadon> "
	promptCont  = "     ... "
)

func main() {
	var (
		expr     = flag.String("e", "", "evaluate `source` and exit")
		strict   = flag.Bool("strict", false, "treat unknown names and non-callable calls as errors")
		seed     = flag.Int64("seed", 0, "seed for the rng object (0 picks one)")
		logLevel = flag.String("loglevel", "info", "log `level`: debug, verbose, info, warning, error")
	)
	flag.Parse()

	lvl, err := log.ValidateLevel(*logLevel)
	if err != nil {
		log.Fatalf("invalid -loglevel: %v", err)
	}
	log.SetLogLevel(lvl)

	opts := []celadon.Option{celadon.WithStrict(*strict)}
	if *seed != 0 {
		opts = append(opts, celadon.WithSeed(*seed))
	}
	ctx := celadon.NewContext(opts...)

	switch {
	case *expr != "":
		os.Exit(run(ctx, *expr))
	case flag.NArg() > 0:
		for _, path := range flag.Args() {
			src, err := os.ReadFile(path)
			if err != nil {
				log.Errf("reading %s: %v", path, err)
				os.Exit(1)
			}
			if status := run(ctx, string(src)); status != 0 {
				os.Exit(status)
			}
		}
	default:
		os.Exit(repl(ctx))
	}
}

func run(ctx *celadon.Context, src string) int {
	values, err := ctx.Eval(src)
	if len(values) > 0 {
		fmt.Println(string(celadon.Encode(values)))
	}
	if err != nil {
		log.Errf("%v", err)
		return 1
	}
	return 0
}

func repl(ctx *celadon.Context) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		start := strings.LastIndexAny(line[:pos], " \t([{:@") + 1
		word := line[start:pos]
		matches := []string{}
		for _, name := range ctx.Names() {
			if word != "" && strings.HasPrefix(name, word) {
				matches = append(matches, name)
			}
		}
		return line[:start], matches, line[pos:]
	})

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		src, ok := readForm(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		values, err := ctx.Eval(src)
		if len(values) > 0 {
			fmt.Println(string(celadon.Encode(values)))
		}
		if err != nil {
			fmt.Println(err)
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// readForm reads lines until every bracket, string and block comment is
// closed.
func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			log.Errf("%v", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); complete(src) {
			return src, true
		}
	}
}

func complete(src string) bool {
	tokens, err := lexer.Tokenize([]byte(src))
	if errors.Is(err, lexer.ErrUnterminatedString) || errors.Is(err, lexer.ErrUnterminatedComment) {
		return false
	}
	if err != nil {
		return true
	}
	depth := 0
	for _, t := range tokens {
		switch t.Type() {
		case lexer.TokenOpen:
			depth++
		case lexer.TokenClose:
			depth--
		}
	}
	return depth <= 0
}
