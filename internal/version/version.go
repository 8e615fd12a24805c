package version

// Version is the sphinxbuilder release, set at link time:
// go build -ldflags "-X git.home.luguber.info/inful/sphinxbuilder/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, also injected via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by the version command.
func String() string {
	return "sphinxbuilder " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
