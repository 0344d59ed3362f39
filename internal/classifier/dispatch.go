package classifier

import "strings"

// excludedPathSegments names directory names that carry no identifying
// information when shortening a path to its last meaningful segment.
var excludedPathSegments = map[string]bool{
	"build": true, "dist": true, "node_modules": true, "src": true,
}

// shortenPath returns the last path segment that isn't one of the
// generic, uninformative directory names build/dist/node_modules/src.
func shortenPath(path string) string {
	parts := strings.Split(strings.TrimRight(path, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" && !excludedPathSegments[parts[i]] {
			return parts[i]
		}
	}
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return path
}

// nonFlagTokens returns, in order, the tokens in args that are neither a
// flag nor the argument consumed by a flag in flagsWithArg.
func nonFlagTokens(args []string, flagsWithArg map[string]bool) []string {
	var out []string
	skipNext := false
	for _, a := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if len(a) > 0 && a[0] == '-' {
			if flagsWithArg[a] {
				skipNext = true
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

// summarizeMainTokens maps one tokenized command segment to a
// ParsedCommand by its head word.
func summarizeMainTokens(seg []string) ParsedCommand {
	unknown := ParsedCommand{Kind: KindUnknown, Cmd: seg}
	if len(seg) == 0 {
		return unknown
	}
	head := seg[0]
	tail := seg[1:]

	switch head {
	case "true":
		return ParsedCommand{Kind: KindNoop, Cmd: seg}

	case "ls":
		args := nonFlagTokens(tail, nil)
		p := ParsedCommand{Kind: KindListFiles, Cmd: seg}
		if len(args) > 0 {
			p.Path = args[0]
		}
		return p

	case "cat", "head", "tail", "nl":
		args := nonFlagTokens(tail, headTailFlagsWithArg)
		p := ParsedCommand{Kind: KindRead, Cmd: seg}
		if len(args) > 0 {
			p.Name = args[len(args)-1]
		}
		return p

	case "sed":
		args := nonFlagTokens(tail, sedFlagsWithArg)
		p := ParsedCommand{Kind: KindRead, Cmd: seg}
		if len(args) > 0 {
			p.Name = args[len(args)-1]
		}
		return p

	case "grep":
		return summarizeSearch(seg, tail, nil)
	case "rg", "fd":
		return summarizeSearch(seg, tail, nil)
	case "find":
		return summarizeFind(seg, tail)

	case "cargo":
		return summarizeCargo(seg, tail)
	case "rustfmt":
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: "rustfmt", Targets: nonFlagTokens(tail, nil)}
	case "go":
		return summarizeGo(seg, tail)
	case "pytest":
		return ParsedCommand{Kind: KindTest, Cmd: seg}
	case "jest", "vitest":
		return ParsedCommand{Kind: KindTest, Cmd: seg}
	case "eslint":
		return ParsedCommand{Kind: KindLint, Cmd: seg, Tool: "eslint", Targets: nonFlagTokens(tail, eslintFlagsWithArg)}
	case "prettier":
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: "prettier", Targets: nonFlagTokens(tail, nil)}
	case "black":
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: "black", Targets: nonFlagTokens(tail, nil)}
	case "ruff":
		return summarizeRuff(seg, tail)
	case "npx":
		return summarizeRunner(seg, tail)
	case "npm", "pnpm", "yarn":
		return summarizeScriptRunner(seg, head, tail)

	default:
		return unknown
	}
}

var eslintFlagsWithArg = map[string]bool{
	"-c": true, "--config": true, "--parser": true,
	"--max-warnings": true, "--format": true,
}

func summarizeSearch(seg, args []string, flagsWithArg map[string]bool) ParsedCommand {
	tokens := nonFlagTokens(args, flagsWithArg)
	p := ParsedCommand{Kind: KindSearch, Cmd: seg}
	if len(tokens) > 0 {
		p.Query = tokens[0]
	}
	if len(tokens) > 1 {
		p.Path = shortenPath(tokens[1])
	}
	return p
}

func summarizeFind(seg, tail []string) ParsedCommand {
	p := ParsedCommand{Kind: KindSearch, Cmd: seg}
	skipNext := false
	for i, a := range tail {
		if skipNext {
			skipNext = false
			continue
		}
		switch {
		case a == "-name" || a == "-iname" || a == "-path":
			if i+1 < len(tail) {
				p.Query = tail[i+1]
			}
			skipNext = true
		case len(a) > 0 && a[0] == '-':
			// other find predicate, ignored
		case p.Path == "":
			p.Path = shortenPath(a)
		}
	}
	return p
}

func summarizeCargo(seg, tail []string) ParsedCommand {
	if len(tail) == 0 {
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
	switch tail[0] {
	case "fmt":
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: "cargo fmt"}
	case "clippy":
		return ParsedCommand{Kind: KindLint, Cmd: seg, Tool: "cargo clippy"}
	case "test":
		return ParsedCommand{Kind: KindTest, Cmd: seg}
	default:
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
}

func summarizeGo(seg, tail []string) ParsedCommand {
	if len(tail) == 0 {
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
	switch tail[0] {
	case "fmt":
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: "gofmt"}
	case "vet":
		return ParsedCommand{Kind: KindLint, Cmd: seg, Tool: "go vet"}
	case "test":
		return ParsedCommand{Kind: KindTest, Cmd: seg}
	default:
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
}

func summarizeRuff(seg, tail []string) ParsedCommand {
	if len(tail) > 0 && tail[0] == "format" {
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: "ruff", Targets: nonFlagTokens(tail[1:], nil)}
	}
	return ParsedCommand{Kind: KindLint, Cmd: seg, Tool: "ruff", Targets: nonFlagTokens(tail, nil)}
}

// summarizeRunner handles `npx <tool> ...`, delegating to the wrapped
// tool's own rules where recognized.
func summarizeRunner(seg, tail []string) ParsedCommand {
	if len(tail) == 0 {
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
	return summarizeMainTokens(tail).withCmd(seg)
}

// summarizeScriptRunner handles `npm|pnpm|yarn [run] <script>`, mapping
// common script names to Test/Lint/Format and falling back to Unknown for
// anything project-specific.
func summarizeScriptRunner(seg []string, manager string, tail []string) ParsedCommand {
	args := tail
	if len(args) > 0 && args[0] == "run" {
		args = args[1:]
	}
	if len(args) == 0 {
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
	switch args[0] {
	case "test":
		return ParsedCommand{Kind: KindTest, Cmd: seg}
	case "lint":
		return ParsedCommand{Kind: KindLint, Cmd: seg, Tool: manager}
	case "format", "fmt":
		return ParsedCommand{Kind: KindFormat, Cmd: seg, Tool: manager}
	default:
		return ParsedCommand{Kind: KindUnknown, Cmd: seg}
	}
}
