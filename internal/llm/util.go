package llm

import "strings"

// CleanJSONBlock strips a surrounding markdown code fence from a completion.
// Schema-guided calls still come back fenced often enough that both JSON
// stages run their content through this first.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		return trimClosingFence(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A bare fence may open with a language tag on its own line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {") {
				text = text[idx+1:]
			}
		}
		return trimClosingFence(text)
	}

	return text
}

func trimClosingFence(text string) string {
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
