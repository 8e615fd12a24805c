package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env style files from the working directory. Call it
// before flag parsing so the files can feed SPHINXOPTS, PAPER and friends.
// Variables already present in the process environment win.
func LoadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(name))
	}
}
