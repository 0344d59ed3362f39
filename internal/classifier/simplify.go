package classifier

import "reflect"

// simplify repeatedly applies simplifyOnce until it reaches a fixed point.
func simplify(cmds []ParsedCommand) []ParsedCommand {
	for {
		next, changed := simplifyOnce(cmds)
		if !changed {
			return next
		}
		cmds = next
	}
}

// simplifyOnce applies one round of structural reductions: dropping a
// leading echo, a cd immediately before a Test, true no-ops, nl stages
// with no file operand, and collapsing adjacent duplicates.
func simplifyOnce(cmds []ParsedCommand) ([]ParsedCommand, bool) {
	if len(cmds) > 0 && isEcho(cmds[0]) {
		return dropAt(cmds, 0), true
	}

	for i, c := range cmds {
		if c.Kind == KindNoop {
			return dropAt(cmds, i), true
		}
		if isCd(c) && i+1 < len(cmds) && cmds[i+1].Kind == KindTest {
			return dropAt(cmds, i), true
		}
		if isBareNl(c) {
			return dropAt(cmds, i), true
		}
	}

	for i := 0; i+1 < len(cmds); i++ {
		if reflect.DeepEqual(cmds[i], cmds[i+1]) {
			return dropAt(cmds, i+1), true
		}
	}

	return cmds, false
}

func isEcho(c ParsedCommand) bool {
	return len(c.Cmd) > 0 && c.Cmd[0] == "echo"
}

func isCd(c ParsedCommand) bool {
	return len(c.Cmd) > 0 && c.Cmd[0] == "cd"
}

func isBareNl(c ParsedCommand) bool {
	return c.Kind == KindRead && len(c.Cmd) > 0 && c.Cmd[0] == "nl" && c.Name == ""
}

func dropAt(cmds []ParsedCommand, i int) []ParsedCommand {
	out := make([]ParsedCommand, 0, len(cmds)-1)
	out = append(out, cmds[:i]...)
	out = append(out, cmds[i+1:]...)
	return out
}
