package sepush

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultTokenEnv is the environment variable holding the API token.
const DefaultTokenEnv = "ESKOMSEPUSH_API_KEY"

// TokenFromEnv reads the token from name, or DefaultTokenEnv when name is
// empty. A missing or blank value is ErrTokenNotSet; nothing is cached.
func TokenFromEnv(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTokenEnv
	}
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", &Error{Kind: KindTokenNotSet, Name: name}
	}
	return token, nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
