package entity

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/parlex-ai/parlex/core"
)

// ExtractPatterns runs every pattern-kind definition against the text and
// returns one entity per match. Patterns are matched case-insensitively;
// other kinds in defs are ignored. A definition with an invalid pattern
// aborts extraction, since bad patterns are an authoring error rather than
// a runtime condition to paper over.
func ExtractPatterns(text string, defs []core.EntityDefinition) ([]core.Entity, error) {
	var entities []core.Entity
	var offsets []int

	for _, def := range defs {
		if def.Kind != core.EntityKindPattern || def.Pattern == "" {
			continue
		}

		re, err := regexp2.Compile(def.Pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for entity %q: %w", def.Name, err)
		}

		m, err := re.FindStringMatch(text)
		if err != nil {
			return nil, fmt.Errorf("pattern match failed for entity %q: %w", def.Name, err)
		}
		if m != nil && offsets == nil {
			offsets = runeByteOffsets(text)
		}
		for m != nil {
			// regexp2 reports rune positions; entities carry byte offsets.
			entities = append(entities, core.Entity{
				Kind:       core.EntityKindPattern,
				Name:       def.Name,
				Value:      m.String(),
				Start:      offsets[m.Index],
				End:        offsets[m.Index+m.Length],
				Confidence: 1,
			})
			m, err = re.FindNextMatch(m)
			if err != nil {
				return nil, fmt.Errorf("pattern match failed for entity %q: %w", def.Name, err)
			}
		}
	}

	return entities, nil
}

// runeByteOffsets maps each rune index in text to its byte offset, with one
// extra trailing element equal to len(text) so half-open ranges index safely.
func runeByteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
