package processor

import (
	"slices"
	"strings"
)

// splitDocument separates a rule document from the comment block renderers
// append after an empty line.
func splitDocument(output string) (doc, trailer string) {
	doc, rest, found := strings.Cut(output, "\n\n")
	if !found {
		return output, ""
	}
	return doc, "\n\n" + rest
}

// appliesTo reports whether a processor limited to platforms handles platformID.
// No platforms means all of them.
func appliesTo(platforms []string, platformID string) bool {
	return len(platforms) == 0 || slices.Contains(platforms, platformID)
}
