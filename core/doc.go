// Package core provides the foundational domain types and interfaces used by
// Parlex. It defines the core abstractions for:
//
//   - Intent definitions (named categories with example utterances and slot schemas)
//   - Predictions and the selected Intent with its match predicate
//   - Entities (typed spans recognized independently of intent)
//   - Slots (intent-scoped spans extracted from text)
//   - Understanding (the aggregate per-request result)
//   - Pluggable backends for language identification, intent classification,
//     entity extraction and slot extraction
//   - The per-bot Storage collaborator and its provider capability
//
// The package intentionally keeps implementation concerns (persistence,
// engine orchestration, concrete backends) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
