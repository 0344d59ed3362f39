package ptyexec

import "fmt"

// String renders Output the way it is shown to the model: a wall-time
// line, a termination-status line, an optional truncation warning, and
// the captured text under an "Output:" header.
func (o Output) String() string {
	termination := fmt.Sprintf("Process exited with code %d", o.Exit.Code)
	if !o.Exit.Exited {
		termination = fmt.Sprintf("Process running with session ID %d", o.Exit.SessionID)
	}

	truncation := ""
	if o.Truncated {
		truncation = fmt.Sprintf("\nWarning: truncated output (original token count: %d)", o.OriginalTokenCount)
	}

	return fmt.Sprintf("Wall time: %.3f seconds\n%s%s\nOutput:\n%s",
		o.WallTime.Seconds(), termination, truncation, o.Text)
}
