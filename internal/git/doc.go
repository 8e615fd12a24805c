// Package git reads revision information from the repository that holds the
// documentation sources. It never fetches or modifies anything; the revision
// only ends up in the build report.
package git
