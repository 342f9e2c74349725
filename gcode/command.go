//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package gcode

// CommandLine is one generated output line: a raw G-code command plus an
// optional trailing comment. A line with an empty command and a comment is
// a section marker only, used to bracket generated blocks.
type CommandLine struct {
	Command string
	Comment string
}

// Marker returns a comment-only section delimiter.
func Marker(comment string) CommandLine {
	return CommandLine{Comment: comment}
}

// IsMarker reports whether the line carries no command payload.
func (line CommandLine) IsMarker() bool {
	return line.Command == ""
}

// LineString serializes the line without a terminator. Comments carry
// their own leading space.
func (line CommandLine) LineString() (out string) {
	out = line.Command
	if line.Comment != "" {
		out += ";" + line.Comment
	}

	return
}
