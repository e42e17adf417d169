// Package credentials resolves the CloudHealth API key. Strict
// precedence: explicit override, then the CLOUDHEALTH_API_KEY
// environment variable, then Vault (when configured), then an
// interactive masked prompt. The key is never logged or written to
// disk; diagnostics name only the source it came from.
package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/cloudhealth-ps/flexreports-backup/internal/config"
	"github.com/cloudhealth-ps/flexreports-backup/internal/logger"
	"github.com/cloudhealth-ps/flexreports-backup/internal/vault"
)

// EnvAPIKey is the environment variable consulted after an explicit
// override.
const EnvAPIKey = "CLOUDHEALTH_API_KEY"

// ErrNoKey means every credential source came up empty.
var ErrNoKey = errors.New("no API key available")

// Resolve returns the API key from the highest-priority source that
// yields one. override comes from the --api-key flag.
func Resolve(ctx context.Context, cfg config.Config, override string) (string, error) {
	log := logger.Global()

	if strings.TrimSpace(override) != "" {
		log.Debug("using API key from command line")
		return strings.TrimSpace(override), nil
	}

	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		log.Debug("using API key from environment", "variable", EnvAPIKey)
		return key, nil
	}

	if cfg.Vault.Address != "" && cfg.Vault.KVPath != "" {
		key, err := readVaultKey(ctx, cfg.Vault)
		if err != nil {
			log.Warn("vault credential source failed", "error", err.Error())
		} else {
			log.Debug("using API key from vault", "path", cfg.Vault.KVPath)
			return key, nil
		}
	}

	return prompt()
}

func readVaultKey(ctx context.Context, cfg config.VaultConfig) (string, error) {
	client, err := vault.NewClient(vault.WithAddress(cfg.Address))
	if err != nil {
		return "", err
	}
	return client.ReadAPIKey(ctx, cfg.KVPath)
}

// prompt reads the key interactively. On a terminal the input is
// masked; otherwise a plain line read keeps piped invocations working.
func prompt() (string, error) {
	fmt.Fprint(os.Stderr, "Enter your CloudHealth API key: ")

	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read API key: %w", err)
		}
		key := strings.TrimSpace(string(raw))
		if key == "" {
			return "", ErrNoKey
		}
		return key, nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}
