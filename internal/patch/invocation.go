package patch

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// DetectInvocation recognizes the two shapes a model emits an apply_patch
// call in: a bare ["apply_patch", body] argv, or a
// ["bash", "-lc", script] wrapper whose script invokes apply_patch with a
// heredoc body. It returns the patch body text, or ok=false if argv isn't
// either shape.
func DetectInvocation(argv []string) (body string, ok bool, err error) {
	if len(argv) == 2 && argv[0] == "apply_patch" {
		return argv[1], true, nil
	}
	if len(argv) == 3 && argv[0] == "bash" && argv[1] == "-lc" && strings.HasPrefix(strings.TrimSpace(argv[2]), "apply_patch") {
		body, err := extractHeredocBody(argv[2])
		if err != nil {
			return "", true, err
		}
		return body, true, nil
	}
	return "", false, nil
}

// extractHeredocBody extracts the body of the first heredoc redirection
// found in a shell script, used to recover the patch text from a command
// like `apply_patch <<'EOF'\n*** Begin Patch\n...\nEOF`.
func extractHeredocBody(script string) (string, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(script), "")
	if err != nil {
		return "", fmt.Errorf("failed to parse command: %w", err)
	}

	var body string
	found := false
	syntax.Walk(file, func(node syntax.Node) bool {
		if found {
			return false
		}
		redirect, isRedirect := node.(*syntax.Redirect)
		if isRedirect && redirect.Hdoc != nil {
			body = wordLiteral(redirect.Hdoc)
			found = true
			return false
		}
		return true
	})

	if !found {
		return "", fmt.Errorf("expected to find a heredoc body in apply_patch command")
	}
	return strings.TrimRight(body, "\n"), nil
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
		}
	}
	return sb.String()
}
