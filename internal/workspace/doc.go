// Package workspace manages the build directory (BUILDDIR) that all targets
// share: the doctree cache lives in <builddir>/doctrees and every target
// writes to its own subdirectory next to it.
//
// The directory itself is persistent across runs so Sphinx can reuse its
// pickled environment. Clean empties it without removing it, matching the
// classic `rm -rf $(BUILDDIR)/*` recipe.
package workspace
