// Package artifact contains concrete implementations of core.ArtifactStore.
//
// The Runner writes generated package files through the store so the same
// workspace logic runs against the real filesystem (FileStore) or a volatile
// map (InMemoryStore) in tests. Callers should depend on the core interface
// rather than concrete types.
package artifact
