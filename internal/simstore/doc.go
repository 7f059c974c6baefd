// Package simstore provides an in-process engine scene runtime: a regular
// backing store whose loads and unloads complete after configurable
// durations, an ordered loaded-scene list, the active-scene pointer, and
// fault injection. Addressable stores attach their scenes to the same
// runtime so the loaded list covers both stores.
package simstore
