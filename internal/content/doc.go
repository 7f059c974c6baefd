// Package content implements the addressable scene store: bundles imported
// under a content directory, an SQLite index mapping addresses to bundles,
// and asynchronous loads that report byte progress while a bundle is read.
//
// Imports take an exclusive file lock on the content directory and loads
// take a shared one, so several processes can load from the same directory
// while another imports into it.
package content
