package build

import "errors"

// Sentinel errors identifying which external tool failed. Stage functions
// wrap them together with the structured cause.
var (
	ErrAutogen   = errors.New("sphinxbuilder: autogen error")
	ErrSphinx    = errors.New("sphinxbuilder: sphinx-build error")
	ErrPostBuild = errors.New("sphinxbuilder: post-build error")
)
