// Package ptyexec runs shell commands inside a pseudo-terminal, one per
// session, streaming their combined output back to the caller.
//
// A single process-wide Manager owns a map from SessionID to session
// record, serialized by a mutex. Each session runs three independent
// background goroutines: a reader draining the PTY master into a
// broadcaster, a writer forwarding queued stdin bytes, and a waiter
// blocked on the child's exit.
//
// ExecCommand allocates a session, starts the process, and collects
// output until either the process exits (plus a short grace period to
// drain anything still buffered) or a caller-supplied deadline passes.
// WriteStdin forwards bytes to an existing session and collects output
// the same way, leaving the session running.
//
// Output is never capped during collection; instead, anything over the
// byte budget is truncated from the middle (see truncateMiddle) so both
// the start and the end of a long command's output — typically the most
// diagnostic parts — survive.
package ptyexec
