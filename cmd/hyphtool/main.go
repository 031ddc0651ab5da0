// Command hyphtool is a peripheral inspection CLI for the hyphenation
// package: given a word list (one per line, on stdin or a file), it prints
// each word with hyphens inserted at every break position, either as a
// one-shot batch pass or as an interactive REPL, grounded on
// original_source/app/HyphTool.cpp's loadHybFile/hyphenate/print loop.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/locale"
)

func main() {
	minPrefix := flag.Int("min-prefix", 2, "minimum codepoints before the first allowed break")
	minSuffix := flag.Int("min-suffix", 3, "minimum codepoints after the last allowed break")
	lang := flag.String("lang", "en-us", "BCP-47 locale tag selecting the hyphenation script")
	wordFile := flag.String("words", "", "file of words to hyphenate, one per line (default: interactive REPL)")
	flag.Parse()

	loc := locale.Parse(*lang)
	hy := hyphenation.NewHyphenator(hyphenation.Options{MinPrefix: *minPrefix, MinSuffix: *minSuffix})

	if *wordFile != "" {
		f, err := os.Open(*wordFile)
		if err != nil {
			pterm.Error.Printf("opening %s: %v\n", *wordFile, err)
			os.Exit(1)
		}
		defer f.Close()
		runBatch(f, hy, loc)
		return
	}
	runREPL(hy, loc)
}

func runBatch(r io.Reader, hy *hyphenation.Hyphenator, loc locale.Locale) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fmt.Println(hyphenateLine(hy, loc, scanner.Text()))
	}
}

func runREPL(hy *hyphenation.Hyphenator, loc locale.Locale) {
	pterm.Info.Println("hyphtool -- type a word, <ctrl>D to quit")
	repl, err := readline.New("hyph> ")
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer repl.Close()

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on ctrl-D
			break
		}
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		out := hyphenateLine(hy, loc, word)
		if len(out) > width {
			out = out[:width-1] + "…"
		}
		pterm.Println(out)
	}
	pterm.Info.Println("goodbye")
}

// hyphenateLine hyphenates one whitespace-delimited line word by word,
// inserting a literal hyphen before every codepoint that may start a new
// line, matching HyphTool.cpp's "-" prefix convention (the original
// special-cased ASCII "-" as a soft hyphen; here we hyphenate verbatim
// runes, so no such rewrite is needed).
func hyphenateLine(hy *hyphenation.Hyphenator, loc locale.Locale, line string) string {
	var sb strings.Builder
	words := strings.Fields(line)
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hyphenateWord(hy, loc, w))
	}
	return sb.String()
}

func hyphenateWord(hy *hyphenation.Hyphenator, loc locale.Locale, word string) string {
	runes := []rune(word)
	types := hy.Hyphenate(runes, loc.Script())
	var sb strings.Builder
	for i, r := range runes {
		sb.WriteRune(r)
		if types[i] != hyphenation.DontBreak {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
