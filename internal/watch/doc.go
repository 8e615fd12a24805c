// Package watch rebuilds a target whenever the documentation sources change.
//
// The source tree is watched with fsnotify. Bursts of events are debounced
// into one rebuild request, at most one rebuild runs at a time, and changes
// that arrive while a rebuild is running queue exactly one follow-up.
// Output written by the build itself (the build directory and the generated
// reference pages) never triggers a rebuild.
package watch
