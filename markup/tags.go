package markup

import "strings"

// CloseDangling closes any tags still open at the end of text, in
// reverse-open order, and returns the prefix that reopens them so a
// following chunk can continue the same spans.
func CloseDangling(text string) (string, string) {
	var open []string // raw contents of currently open tags, in open order
	for _, match := range tagRE.FindAllStringSubmatch(text, -1) {
		raw := match[1]
		if !strings.HasPrefix(strings.TrimSpace(raw), "/") {
			open = append(open, raw)
			continue
		}
		name := tagName(raw)
		for i := len(open) - 1; i >= 0; i-- {
			if tagName(open[i]) == name {
				open = append(open[:i], open[i+1:]...)
				break
			}
		}
	}
	if len(open) == 0 {
		return text, ""
	}

	var closing, reopen strings.Builder
	for i := len(open) - 1; i >= 0; i-- {
		closing.WriteString("</" + tagName(open[i]) + ">")
	}
	for _, raw := range open {
		reopen.WriteString("<" + raw + ">")
	}
	return text + closing.String(), reopen.String()
}

// RepairChunks makes every chunk of a split message independently
// well-formed, carrying spans that cross a boundary into the next chunk.
func RepairChunks(chunks []string) []string {
	repaired := make([]string, len(chunks))
	prefix := ""
	for i, chunk := range chunks {
		repaired[i], prefix = CloseDangling(prefix + chunk)
	}
	return repaired
}
