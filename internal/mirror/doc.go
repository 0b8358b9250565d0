// Package mirror implements namespace-wide repository synchronization. It
// maps repository descriptors onto local filesystem paths, clones missing
// repositories and updates existing ones through a git repository manager,
// fans the work out over a bounded worker pool, and aggregates the results
// into a rendered summary.
package mirror
