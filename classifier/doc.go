// Package classifier provides IntentClassifier implementations.
//
// BagOfWords is the default self-contained backend: a TF-IDF centroid model
// trained from example utterances, serialized to a JSON artifact so the sync
// controller can persist and reload it by fingerprint. Anthropic and OpenAI
// variants perform zero-shot classification over the intent names via the
// official SDKs; their "model" artifact is just the serialized label set.
//
// All implementations guard the active model with a read-write lock so a
// concurrent sync (LoadModel) and in-flight Predict calls never observe a
// half-swapped model.
package classifier
