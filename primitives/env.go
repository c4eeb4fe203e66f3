package primitives

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads dir/.env.local if present, else dir/.env.example if present.
// Variables already set in the process win. It returns the file loaded, or ""
// when neither exists.
func LoadEnv(dir string) (string, error) {
	for _, name := range []string{".env.local", ".env.example"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}
