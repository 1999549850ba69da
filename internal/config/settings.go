package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Storage backends for the submission flag
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Settings holds process-level configuration read from the environment.
type Settings struct {
	RulesFile   string // DEDUCTGO_RULES, empty means built-in defaults
	Backend     string // DEDUCTGO_BACKEND: file, postgres or memory
	StateFile   string // DEDUCTGO_STATE_FILE
	DatabaseURL string // DATABASE_URL
	Addr        string // DEDUCTGO_ADDR or :PORT
}

// LoadSettings reads settings from the environment, loading a .env file
// from the working directory first when one exists. Variables already set
// in the environment win over the file. A missing .env is fine; one that
// cannot be read or parsed is an error.
func LoadSettings() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}
	return LoadSettingsFromEnv(), nil
}

// LoadSettingsFromEnv reads settings without touching .env files
func LoadSettingsFromEnv() Settings {
	s := Settings{
		RulesFile:   os.Getenv("DEDUCTGO_RULES"),
		Backend:     os.Getenv("DEDUCTGO_BACKEND"),
		StateFile:   os.Getenv("DEDUCTGO_STATE_FILE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Addr:        os.Getenv("DEDUCTGO_ADDR"),
	}

	if s.Backend == "" {
		s.Backend = BackendFile
		if s.DatabaseURL != "" {
			s.Backend = BackendPostgres
		}
	}
	if s.StateFile == "" {
		s.StateFile = DefaultStateFile()
	}
	if s.Addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		s.Addr = ":" + port
	}
	return s
}

// DefaultStateFile is ~/.deductgo/state.yaml, or ./.deductgo/state.yaml
// when the home directory cannot be determined.
func DefaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".deductgo", "state.yaml")
	}
	return filepath.Join(home, ".deductgo", "state.yaml")
}
