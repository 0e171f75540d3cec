package entity

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/parlex-ai/parlex/core"
)

// fuzzyListConfidence is assigned to list matches found only via fuzzy
// comparison; exact occurrences score 1.
const fuzzyListConfidence = 0.8

// token is a word with its byte offsets in the original text.
type token struct {
	text  string
	start int
	end   int
}

// ExtractLists scans the text for every list-kind definition's occurrence
// values and synonyms. Terms are compared case-insensitively against word
// n-grams of the text (up to the term's own word count), so multi-word
// occurrences like "new york" match as a unit. Definitions with Fuzzy set
// additionally accept close fuzzy matches at reduced confidence.
func ExtractLists(text string, defs []core.EntityDefinition) ([]core.Entity, error) {
	tokens := tokenizeOffsets(text)
	var entities []core.Entity

	for _, def := range defs {
		if def.Kind != core.EntityKindList {
			continue
		}
		for _, occ := range def.Occurrences {
			terms := append([]string{occ.Name}, occ.Synonyms...)
			for _, term := range terms {
				entities = append(entities, scanTerm(text, tokens, def, occ.Name, term)...)
			}
		}
	}

	return entities, nil
}

// scanTerm finds all n-gram matches of one term.
func scanTerm(text string, tokens []token, def core.EntityDefinition, valueName, term string) []core.Entity {
	words := strings.Fields(term)
	if len(words) == 0 {
		return nil
	}

	var out []core.Entity
	for i := 0; i+len(words) <= len(tokens); i++ {
		start := tokens[i].start
		end := tokens[i+len(words)-1].end
		window := text[start:end]

		confidence := matchConfidence(window, term, def.Fuzzy)
		if confidence == 0 {
			continue
		}

		out = append(out, core.Entity{
			Kind:       core.EntityKindList,
			Name:       def.Name,
			Value:      valueName,
			Start:      start,
			End:        end,
			Confidence: confidence,
		})
	}
	return out
}

// matchConfidence compares a text window against a term: exact
// case-insensitive equality scores 1, a close fuzzy match scores
// fuzzyListConfidence when enabled, anything else 0.
func matchConfidence(window, term string, fuzzyEnabled bool) float64 {
	if strings.EqualFold(collapseSpaces(window), collapseSpaces(term)) {
		return 1
	}
	if !fuzzyEnabled {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(strings.ToLower(collapseSpaces(window)), strings.ToLower(collapseSpaces(term)))
	if dist <= len(term)/3 {
		return fuzzyListConfidence
	}
	return 0
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenizeOffsets splits text into word tokens keeping byte offsets.
func tokenizeOffsets(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			tokens = append(tokens, token{text: text[start:i], start: start, end: i})
			start = -1
		}
	}
	if start != -1 {
		tokens = append(tokens, token{text: text[start:], start: start, end: len(text)})
	}
	return tokens
}
