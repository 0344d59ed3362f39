package types

// HunkKind discriminates the Hunk tagged variant produced by the patch
// parser.
type HunkKind string

const (
	HunkAddFile    HunkKind = "add_file"
	HunkDeleteFile HunkKind = "delete_file"
	HunkUpdateFile HunkKind = "update_file"
)

// Hunk is one file-level change parsed out of a patch document.
type Hunk struct {
	Kind HunkKind

	// AddFile fields.
	Path     string // absolute path, valid for all kinds
	Contents string // AddFile only

	// UpdateFile fields.
	MovePath string             // optional rename target
	Chunks   []UpdateFileChunk // UpdateFile only
}

// UpdateFileChunk is one located-and-replaced span within an UpdateFile
// hunk. ChangeContext, when present, is a single anchor line that must be
// found strictly before OldLines in the file, narrowing the search window
// for files with repeated content.
type UpdateFileChunk struct {
	ChangeContext string
	OldLines      []string
	NewLines      []string
	IsEndOfFile   bool
}

// FileChange is the fully resolved, filesystem-ready effect of one Hunk,
// computed by the update-application algorithm before any bytes are
// written.
type FileChange struct {
	Kind HunkKind
	Path string

	// Add
	NewContents string

	// Update
	MovePath string

	// Delete has no extra fields.
}
