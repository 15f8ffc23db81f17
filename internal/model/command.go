package model

import "github.com/kballard/go-shellquote"

// Command is a single executable invocation as an ordered argument vector.
//
// Commands are always executed token by token, never joined into a shell
// string, so argument boundaries are preserved and there is no shell
// injection surface.
type Command []string

// Program returns the executable token (the first token) or an empty string.
func (c Command) Program() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns the argument tokens after the program.
func (c Command) Args() []string {
	if len(c) == 0 {
		return nil
	}
	return c[1:]
}

// String returns a shell-quoted rendering of the command. This is for logs
// and error messages only, never for execution.
func (c Command) String() string {
	return shellquote.Join(c...)
}
