package classifier

// Kind discriminates the ParsedCommand tagged variant.
type Kind string

const (
	KindRead      Kind = "read"
	KindListFiles Kind = "list_files"
	KindSearch    Kind = "search"
	KindFormat    Kind = "format"
	KindTest      Kind = "test"
	KindLint      Kind = "lint"
	KindNoop      Kind = "noop"
	KindUnknown   Kind = "unknown"
)

// ParsedCommand is one summarized pipeline segment. Cmd always holds the
// full original argv for the segment so a caller that doesn't care about
// the summary can still show the raw command; the remaining fields are
// populated according to Kind and are zero otherwise.
type ParsedCommand struct {
	Kind Kind
	Cmd  []string

	// Read
	Name string

	// ListFiles, Search, Format, Lint
	Path    string
	Query   string   // Search only
	Tool    string   // Format, Lint: the underlying formatter/linter binary
	Targets []string // Format, Lint
}

func (p ParsedCommand) withCmd(cmd []string) ParsedCommand {
	p.Cmd = cmd
	return p
}
