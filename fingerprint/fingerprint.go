// Package fingerprint computes the content hash used to detect when the
// intent model must be retrained. The hash covers the full intent definition
// set: names, utterances and slot schemas. Definitions are sorted by name
// before serialization so that storage iteration order cannot invalidate a
// model; utterance and slot order remain significant.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/parlex-ai/parlex/core"
)

// Of returns the hex fingerprint of the intent definition set. It is a pure
// function of its input: identical content yields an identical fingerprint
// and any content change alters it with overwhelming probability. The empty
// set hashes the canonical empty serialization; callers that need "no
// intents" semantics must check for that case themselves.
func Of(intents []core.IntentDefinition) string {
	canonical := make([]core.IntentDefinition, len(intents))
	copy(canonical, intents)
	sort.Slice(canonical, func(i, j int) bool { return canonical[i].Name < canonical[j].Name })

	// Marshal of these plain structs cannot fail.
	data, _ := json.Marshal(canonical)

	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
