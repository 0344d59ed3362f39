package classifier

// Classify turns argv into an ordered list of ParsedCommand summaries,
// running the full tokenize -> drop-formatting-helpers -> summarize ->
// simplify pipeline.
func Classify(argv []string) []ParsedCommand {
	segs := tokenizeSegments(argv)

	kept := make([][]string, 0, len(segs))
	for _, seg := range segs {
		if isSmallFormattingCommand(seg) {
			continue
		}
		kept = append(kept, seg)
	}

	cmds := make([]ParsedCommand, 0, len(kept))
	for _, seg := range kept {
		cmds = append(cmds, summarizeMainTokens(seg))
	}

	return simplify(cmds)
}
