package service

import (
	"fmt"
	"strings"
)

const contextSeparator = "\n---\n"

const promptTemplate = `You are a portfolio assistant embedded in an interactive resume site.
Answer the visitor's question using ONLY the context passages below. Each passage
is labeled with its source id. Keep answers concise and recruiter-friendly.
If the context does not contain the answer, say so plainly. Do not make up
anything that is not in the context.

=== CONTEXT ===
%s
=== END CONTEXT ===`

// BuildPrompt formats ranked retrieval results into the grounding context
// block and embeds it in the fixed instruction template for the generation
// service. Pure string construction.
func BuildPrompt(results []ScoredChunk) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		c := r.Chunk
		label := c.Title
		if c.ProjectID != "" {
			label = fmt.Sprintf("%s (project: %s)", c.Title, c.ProjectID)
		}
		blocks = append(blocks, fmt.Sprintf("[%s] (%s) %s:\n%s", c.ChunkID, c.Type, label, c.Text))
	}

	contextBlock := strings.Join(blocks, contextSeparator)
	if contextBlock == "" {
		contextBlock = "(no relevant context found)"
	}

	return fmt.Sprintf(promptTemplate, contextBlock)
}
