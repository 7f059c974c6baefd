// Package core provides the internal implementation of scenegroup.
// It contains the GroupManager (state machine that unloads stale scenes,
// loads missing ones concurrently across the regular runtime and an
// addressable store, then promotes the active scene), the SingleManager,
// the SceneLoader that selects groups by index, and the progress plumbing
// they share: operation groups, the Aggregator, RunParallel and Tracker.
package core
