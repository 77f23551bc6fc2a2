package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileOverrideVar names a .env file that wins over the --env flag.
const EnvFileOverrideVar = "LINGOMIX_ENV_FILE"

// EnvLoader loads .env files with a predictable override order.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	value := fs.String("env", defaultPath, description)
	return &EnvLoader{
		value:       value,
		defaultPath: defaultPath,
	}
}

// Load resolves and loads environment variables. Order: $LINGOMIX_ENV_FILE,
// the --env value, its basename in the working directory, then the default.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	if custom := strings.TrimSpace(os.Getenv(EnvFileOverrideVar)); custom != "" {
		if err := godotenv.Overload(custom); err == nil {
			log.Printf("Loaded environment from %s: %s", EnvFileOverrideVar, custom)
			return custom, nil
		}
		log.Printf("Warning: failed to load %s=%s", EnvFileOverrideVar, custom)
	}

	candidates := l.candidates()
	for _, path := range candidates {
		if err := godotenv.Overload(path); err == nil {
			log.Printf("Loaded environment from: %s", path)
			return path, nil
		}
	}

	return "", fmt.Errorf("failed to load env file from %s", candidates[0])
}

func (l *EnvLoader) candidates() []string {
	requested := ""
	if l.value != nil {
		requested = strings.TrimSpace(*l.value)
	}
	if requested == "" {
		requested = l.defaultPath
	}

	paths := []string{requested}
	if base := filepath.Base(requested); base != "" && base != requested {
		paths = append(paths, base)
	}
	if requested != l.defaultPath {
		paths = append(paths, l.defaultPath)
	}
	return paths
}
