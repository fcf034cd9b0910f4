// Package report assembles rendered patient blocks into the final text
// and DOCX outputs.
package report

import "strings"

// JoinBlocks joins rendered blocks with a blank line between them.
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}
