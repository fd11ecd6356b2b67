// Package stacktrace shortens panic stacks to the frames that belong to this
// module.
package stacktrace

import "strings"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// a debug.Stack() dump that points into an internal package.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		short := line[idx+1:]
		// drop the " +0x1c" pc offset
		if sp := strings.IndexByte(short, ' '); sp != -1 {
			short = short[:sp]
		}
		paths = append(paths, short)
	}
	return paths
}
