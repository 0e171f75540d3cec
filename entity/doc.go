// Package entity provides the three entity extraction sources merged by the
// prediction pipeline: a Duckling-compatible remote client for system
// entities (dates, numbers, measurements), a pattern extractor over
// author-defined regular expressions and a list extractor over occurrence
// values and synonyms. Pattern and list extraction are pure functions; the
// system extractor is a narrow HTTP client with an enable flag.
package entity
