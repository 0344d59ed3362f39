package classifier

// alwaysFormattingCommands names pipeline stages that are always noise:
// they reshape or throttle output rather than doing the interesting work
// of the command the user ran.
var alwaysFormattingCommands = map[string]bool{
	"wc": true, "tr": true, "cut": true, "sort": true, "uniq": true,
	"xargs": true, "tee": true, "column": true, "awk": true, "yes": true,
	"printf": true,
}

// isSmallFormattingCommand reports whether seg is a pipeline stage that
// should be dropped before classification: either an always-noise command,
// or head/tail/sed used without an explicit file operand (i.e. reading
// from the previous stage's stdout rather than a file of its own).
func isSmallFormattingCommand(seg []string) bool {
	if len(seg) == 0 {
		return false
	}
	head := seg[0]
	if alwaysFormattingCommands[head] {
		return true
	}
	switch head {
	case "head", "tail":
		return !hasFileOperand(seg[1:], headTailFlagsWithArg)
	case "sed":
		return !isValidSedNArgReadForm(seg) && !sedHasFileOperand(seg[1:])
	}
	return false
}

var headTailFlagsWithArg = map[string]bool{"-n": true, "-c": true}
var sedFlagsWithArg = map[string]bool{"-e": true, "-f": true}

// sedHasFileOperand reports whether a sed invocation's tail names a file.
// sed's script is itself a bare positional argument unless supplied via
// -e/-f, so a bare script counts as the one mandatory non-flag token and a
// file operand must be a second one.
func sedHasFileOperand(tail []string) bool {
	hasExplicitScript := false
	for _, a := range tail {
		if a == "-e" || a == "-f" {
			hasExplicitScript = true
			break
		}
	}
	tokens := nonFlagTokens(tail, sedFlagsWithArg)
	minTokens := 2
	if hasExplicitScript {
		minTokens = 1
	}
	return len(tokens) >= minTokens
}

// hasFileOperand reports whether args (the segment's tail) contains a
// non-flag token that isn't the value of a flag known to consume one,
// i.e. something that looks like a file path rather than an option.
func hasFileOperand(args []string, flagsWithArg map[string]bool) bool {
	skipNext := false
	for _, a := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if a == "-" {
			continue
		}
		if len(a) > 0 && a[0] == '-' {
			if flagsWithArg[a] {
				skipNext = true
			}
			continue
		}
		return true
	}
	return false
}

// isValidSedNArgReadForm recognizes `sed -n '<range>p' file`, the one sed
// invocation shape that is a genuine file read rather than a formatting
// pass-through, so it survives to be classified as Read.
func isValidSedNArgReadForm(seg []string) bool {
	if len(seg) < 3 {
		return false
	}
	if seg[0] != "sed" {
		return false
	}
	rest := seg[1:]
	if rest[0] != "-n" {
		return false
	}
	if len(rest) < 3 {
		return false
	}
	script := rest[1]
	if !isLineRangePrintScript(script) {
		return false
	}
	file := rest[2]
	return len(file) > 0 && file[0] != '-'
}

// isLineRangePrintScript matches sed scripts of the form "N,Mp" or "Np".
func isLineRangePrintScript(script string) bool {
	if len(script) == 0 || script[len(script)-1] != 'p' {
		return false
	}
	body := script[:len(script)-1]
	if body == "" {
		return false
	}
	sawDigit := false
	sawComma := false
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9':
			sawDigit = true
		case r == ',' && !sawComma:
			sawComma = true
		default:
			return false
		}
	}
	return sawDigit
}
