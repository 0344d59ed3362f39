// Package patch implements the apply_patch grammar: parsing the
// "*** Begin Patch" / "Add File" / "Delete File" / "Update File" format
// into hunks, locating each update chunk's old lines in the target file,
// and producing the resulting file contents and a unified diff.
//
// # Grammar
//
//	start: begin_patch hunk+ end_patch
//	begin_patch: "*** Begin Patch"
//	end_patch:   "*** End Patch"
//	hunk: add_hunk | delete_hunk | update_hunk
//	add_hunk:    "*** Add File: " path  ("+" line)+
//	delete_hunk: "*** Delete File: " path
//	update_hunk: "*** Update File: " path ("*** Move to: " path)? chunk+
//	chunk: ("@@" | "@@ " context)? (" " | "+" | "-") line+ ("*** End of File")?
//
// Parsing is tolerant of leading/trailing whitespace around the Begin
// Patch, End Patch and file hunk header lines, and of an update chunk's
// first context marker being omitted entirely. The "*** Move to: ", "@@"
// and "*** End of File" lines must match exactly.
//
// # Matching
//
// Each chunk's old_lines are located in the target file with seekSequence,
// trying an exact match, then a match ignoring trailing whitespace, then a
// match ignoring leading and trailing whitespace — in that order, at the
// first position at or after the previous chunk's end (or, for an
// end-of-file chunk, starting the search from the file's last
// len(old_lines) lines). Matches are applied in descending line-index
// order so earlier replacements never shift later ones.
package patch
