// Package classifier turns raw command argv — possibly a "bash -lc script"
// wrapper — into a small, ordered list of ParsedCommand summaries used for
// UI display and for feeding the permission assessor a human-legible gloss
// of what a shell invocation actually does.
//
// The pipeline has four stages, run in order by Classify:
//
//  1. Tokenize: if argv is a bash/sh "-lc"/"-c" wrapper, parse the script
//     with the embedded bash grammar and flatten it into an ordered list of
//     word-only command segments (one per pipeline/list stage). Otherwise
//     argv is split on the literal connector tokens "|", "&&", "||", ";".
//  2. Drop small formatting helpers: segments like `wc -l`, `sort`, or a
//     `head`/`tail`/`sed` invocation with no file operand are noise in a
//     pipeline and are removed before classification.
//  3. Summarize: each remaining segment is mapped to a ParsedCommand variant
//     by its head word, with tool-specific flag handling (e.g. eslint's
//     `--config <path>` consumes the next token rather than becoming a
//     target).
//  4. Simplify: a fixed-point reduction drops leading `echo` segments, `cd`
//     segments immediately preceding a Test segment, `true` no-ops, and
//     collapses adjacent duplicate summaries.
package classifier
