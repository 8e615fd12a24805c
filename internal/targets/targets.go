// Package targets is the fixed catalog of output formats sphinxbuilder can
// produce. Each entry maps a command name to a Sphinx builder, an output
// directory under BUILDDIR, and the messages printed around the build.
package targets

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PostBuild identifies an extra step run after sphinx-build succeeds.
type PostBuild string

const (
	PostBuildNone     PostBuild = ""
	PostBuildLatexPDF PostBuild = "latex_all_pdf" // make -C <builddir>/latex all-pdf
)

// Target describes one output format.
type Target struct {
	Name      string
	Builder   string
	OutputDir string
	Help      string
	Print     bool // accepts the paper size option
	PostBuild PostBuild
	finished  []string
}

// Catalog order matches the help listing.
var catalog = []Target{
	{
		Name: "html", Builder: "html", OutputDir: "html",
		Help:     "to make standalone HTML files",
		finished: []string{"Build finished. The HTML pages are in {out}."},
	},
	{
		Name: "dirhtml", Builder: "dirhtml", OutputDir: "dirhtml",
		Help:     "to make HTML files named index.html in directories",
		finished: []string{"Build finished. The HTML pages are in {out}."},
	},
	{
		Name: "singlehtml", Builder: "singlehtml", OutputDir: "singlehtml",
		Help:     "to make a single large HTML file",
		finished: []string{"Build finished. The HTML page is in {out}."},
	},
	{
		Name: "pickle", Builder: "pickle", OutputDir: "pickle",
		Help:     "to make pickle files",
		finished: []string{"Build finished; now you can process the pickle files."},
	},
	{
		Name: "json", Builder: "json", OutputDir: "json",
		Help:     "to make JSON files",
		finished: []string{"Build finished; now you can process the JSON files."},
	},
	{
		Name: "htmlhelp", Builder: "htmlhelp", OutputDir: "htmlhelp",
		Help: "to make HTML files and a HTML help project",
		finished: []string{
			"Build finished; now you can run HTML Help Workshop with the .hhp project file in {out}.",
		},
	},
	{
		Name: "qthelp", Builder: "qthelp", OutputDir: "qthelp",
		Help: "to make HTML files and a qthelp project",
		finished: []string{
			`Build finished; now you can run "qcollectiongenerator" with the .qhcp project file in {out}, like this:`,
			"# qcollectiongenerator {out}/{project}.qhcp",
			"To view the help file:",
			"# assistant -collectionFile {out}/{project}.qhc",
		},
	},
	{
		Name: "devhelp", Builder: "devhelp", OutputDir: "devhelp",
		Help: "to make HTML files and a Devhelp project",
		finished: []string{
			"Build finished.",
			"To view the help file:",
			"# mkdir -p $HOME/.local/share/devhelp/{project}",
			"# ln -s {out} $HOME/.local/share/devhelp/{project}",
			"# devhelp",
		},
	},
	{
		Name: "epub", Builder: "epub", OutputDir: "epub",
		Help:     "to make an epub",
		finished: []string{"Build finished. The epub file is in {out}."},
	},
	{
		Name: "latex", Builder: "latex", OutputDir: "latex", Print: true,
		Help: "to make LaTeX files, you can set PAPER=a4 or PAPER=letter",
		finished: []string{
			"Build finished; the LaTeX files are in {out}.",
			"Run `make' in that directory to run these through (pdf)latex (use `sphinxbuilder latexpdf' here to do that automatically).",
		},
	},
	{
		Name: "latexpdf", Builder: "latex", OutputDir: "latex", Print: true, PostBuild: PostBuildLatexPDF,
		Help:     "to make LaTeX files and run them through pdflatex",
		finished: []string{"pdflatex finished; the PDF files are in {out}."},
	},
	{
		Name: "text", Builder: "text", OutputDir: "text",
		Help:     "to make text files",
		finished: []string{"Build finished. The text files are in {out}."},
	},
	{
		Name: "man", Builder: "man", OutputDir: "man",
		Help:     "to make manual pages",
		finished: []string{"Build finished. The manual pages are in {out}."},
	},
	{
		Name: "changes", Builder: "changes", OutputDir: "changes",
		Help:     "to make an overview of all changed/added/deprecated items",
		finished: []string{"The overview file is in {out}."},
	},
	{
		Name: "linkcheck", Builder: "linkcheck", OutputDir: "linkcheck",
		Help: "to check all external links for integrity",
		finished: []string{
			"Link check complete; look for any errors in the above output or in {out}/output.txt.",
		},
	},
	{
		Name: "doctest", Builder: "doctest", OutputDir: "doctest",
		Help: "to run all doctests embedded in the documentation (if enabled)",
		finished: []string{
			"Testing of doctests in the sources finished, look at the results in {out}/output.txt.",
		},
	},
}

var byName = func() map[string]Target {
	m := make(map[string]Target, len(catalog))
	for _, t := range catalog {
		m[t.Name] = t
	}
	return m
}()

// All returns every target in help order.
func All() []Target {
	out := make([]Target, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the target names in help order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, t := range catalog {
		names[i] = t.Name
	}
	return names
}

// Lookup finds a target by command name.
func Lookup(name string) (Target, bool) {
	t, ok := byName[name]
	return t, ok
}

// Dir returns the target's output directory under buildDir.
func (t Target) Dir(buildDir string) string {
	return filepath.Join(buildDir, t.OutputDir)
}

// FinishedMessage renders the lines printed after a successful build.
func (t Target) FinishedMessage(buildDir, project string) string {
	r := strings.NewReplacer("{out}", t.Dir(buildDir), "{project}", project)
	lines := make([]string, len(t.finished))
	for i, l := range t.finished {
		lines[i] = r.Replace(l)
	}
	return strings.Join(lines, "\n")
}

// HelpText renders the target listing in the classic Makefile layout.
func HelpText(program string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please use `%s <target>' where <target> is one of\n", program)
	for _, t := range catalog {
		fmt.Fprintf(&b, "  %-10s %s\n", t.Name, t.Help)
	}
	return b.String()
}
