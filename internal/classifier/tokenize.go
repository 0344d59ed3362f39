package classifier

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var connectors = map[string]bool{"|": true, "&&": true, "||": true, ";": true}

// tokenizeSegments turns argv into an ordered list of word-only command
// segments, one per pipeline/list stage.
func tokenizeSegments(argv []string) [][]string {
	if isShellWrapper(argv) {
		segs, err := tokenizeScript(argv[2])
		if err == nil {
			return segs
		}
		// Fall through to treating argv as a single literal segment; a
		// script the embedded grammar can't parse is still worth showing
		// to the user as an opaque command.
	}
	return splitOnConnectors(argv)
}

func isShellWrapper(argv []string) bool {
	if len(argv) != 3 {
		return false
	}
	switch argv[0] {
	case "bash", "sh", "/bin/bash", "/bin/sh":
	default:
		return false
	}
	return argv[1] == "-lc" || argv[1] == "-c"
}

// tokenizeScript parses script with the embedded bash grammar and flattens
// it into one word-list per command, in source order.
func tokenizeScript(script string) ([][]string, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash), syntax.KeepComments(false))
	file, err := parser.Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, err
	}

	var segs [][]string
	syntax.Walk(file, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok {
			words := wordsOf(call)
			if len(words) > 0 {
				segs = append(segs, words)
			}
		}
		return true
	})
	return segs, nil
}

func wordsOf(call *syntax.CallExpr) []string {
	words := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		words = append(words, wordLiteral(w))
	}
	return words
}

func wordLiteral(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, qp := range p.Parts {
				if lit, ok := qp.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		case *syntax.ParamExp:
			sb.WriteString("$" + p.Param.Value)
		case *syntax.CmdSubst:
			sb.WriteString("$()")
		}
	}
	return sb.String()
}

// splitOnConnectors splits a flat argv list on literal shell connector
// tokens, covering the (rare) case where argv itself carries them as
// separate arguments rather than being wrapped in a shell script.
func splitOnConnectors(argv []string) [][]string {
	var segs [][]string
	var cur []string
	for _, tok := range argv {
		if connectors[tok] {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}
