// Package engine implements the per-bot decision core. An Engine owns the
// trained intent model for one bot, keeps it synchronized with the bot's
// authored definitions via model fingerprinting, and runs the prediction
// pipeline that turns an utterance into a structured understanding.
//
// The package also provides a thread-safe Registry that maps bot IDs to
// mounted engines for multi-tenant deployments.
package engine
