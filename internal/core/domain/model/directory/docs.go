// Package directory holds snapshots of the external partner and shop directories.
// The dispatcher reads them for matching and never owns their lifecycle.
package directory
