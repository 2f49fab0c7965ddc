package secrets

import (
	"os"
	"strings"

	"github.com/spigell/blacktable/internal/failure"
)

// Source describes where an API key may come from.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// File points to a file containing the secret value. It wins over Value and Env.
	File string
	// Value is an inline secret from configuration or flags.
	Value string
	// Env is consulted last.
	Env string
}

// Load resolves the secret from File, then Value, then Env. The result is
// trimmed. A missing or empty secret is a MissingCredentials failure.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", failure.Wrap(failure.MissingCredentials, err, "reading %s from file %q", name, file)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", failure.New(failure.MissingCredentials, "%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
		return "", failure.New(failure.MissingCredentials, "%s is not configured (set %s)", name, env)
	}

	return "", failure.New(failure.MissingCredentials, "%s is not configured", name)
}
