// Package diffscan interprets the unified diff of one file in one commit
// into added and removed line positions.
package diffscan

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// FileChange holds the line positions one commit touched in one file.
// Added positions live in the new revision's line space, removed positions
// in the old revision's. Context lines are never recorded.
type FileChange struct {
	Added   map[int]struct{}
	Removed map[int]struct{}
	Created bool // File did not exist before this commit
	Deleted bool // File no longer exists after this commit
}

// Empty reports whether the commit touched no lines in the file.
func (c *FileChange) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Interpret parses the raw unified diff for exactly one file in one
// commit. An empty diff (e.g. a clean merge) yields an empty change.
func Interpret(raw []byte) (*FileChange, error) {
	change := &FileChange{
		Added:   make(map[int]struct{}),
		Removed: make(map[int]struct{}),
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return change, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	for _, fd := range fileDiffs {
		if fd.OrigName == "/dev/null" || fd.OrigName == "" {
			change.Created = true
		}
		if fd.NewName == "/dev/null" || fd.NewName == "" {
			change.Deleted = true
		}
		for _, hunk := range fd.Hunks {
			collectHunk(change, hunk)
		}
	}

	return change, nil
}

// collectHunk walks a hunk body tracking both line cursors, recording
// every added position against the new revision and every removed
// position against the old one.
func collectHunk(change *FileChange, hunk *godiff.Hunk) {
	oldLine := int(hunk.OrigStartLine)
	newLine := int(hunk.NewStartLine)

	for line := range strings.SplitSeq(string(hunk.Body), "\n") {
		if len(line) == 0 {
			// Blank context line, both sides advance
			oldLine++
			newLine++
			continue
		}

		switch line[0] {
		case '+':
			change.Added[newLine] = struct{}{}
			newLine++
		case '-':
			change.Removed[oldLine] = struct{}{}
			oldLine++
		case ' ':
			oldLine++
			newLine++
		case '\\':
			// "\ No newline at end of file" consumes no line on either side
		}
	}
}
