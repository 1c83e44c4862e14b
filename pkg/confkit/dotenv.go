package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads .env files the first time it is called.
//
// ENV_FILE selects a single file. Otherwise .env is tried in the working
// directory and each parent up to the project root (go.mod or .git).
// Variables already present in the environment win unless DOTENV_OVERLOAD=1.
// NO_DOTENV=1 disables loading entirely.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}
	root, err := ProjectRoot()
	if err != nil {
		_ = load(".env")
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = root
	}
	for dir := wd; ; dir = filepath.Dir(dir) {
		_ = load(filepath.Join(dir, ".env"))
		if dir == root || dir == filepath.Dir(dir) {
			return
		}
	}
}
