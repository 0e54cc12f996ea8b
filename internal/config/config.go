// Package config decides which store learnlit talks to.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/learnlit/internal/constants"
	"github.com/julianstephens/learnlit/internal/keyring"
	"github.com/julianstephens/learnlit/internal/logger"
	"github.com/julianstephens/learnlit/internal/storage"
	"github.com/julianstephens/learnlit/internal/storage/postgres"
	"github.com/julianstephens/learnlit/internal/storage/redis"
	"github.com/julianstephens/learnlit/internal/storage/sqlite"
)

// Kind is the storage backend a target selects.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
	KindJSON     Kind = "json"
	KindMemory   Kind = "memory"
)

const memoryTarget = ":memory:"

// Source records where a target came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
)

type Target struct {
	Value  string
	Kind   Kind
	Source Source
}

// IsFile reports whether the target is a local file that can be backed up.
func (t Target) IsFile() bool {
	return t.Kind == KindSQLite || t.Kind == KindJSON
}

// Display is Value with any URL password masked.
func (t Target) Display() string {
	return keyring.Mask(t.Value)
}

// ConfigDir is the directory holding logs and, for file stores, backups.
func (t Target) ConfigDir() string {
	if t.IsFile() {
		return filepath.Dir(t.Value)
	}
	dir, err := ExpandHome(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return "."
	}
	return dir
}

// DetectKind picks a backend from the shape of target.
func DetectKind(target string) Kind {
	switch {
	case postgres.IsConnString(target):
		return KindPostgres
	case redis.IsURL(target):
		return KindRedis
	case target == memoryTarget:
		return KindMemory
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Resolver looks up the store target. The zero value uses the process
// environment, ./.env and the OS keyring.
type Resolver struct {
	EnvFiles []string
	Getenv   func(string) string
	Keyring  func() (string, error)
}

// Resolve uses the default Resolver.
func Resolve(flag string) (Target, error) {
	return Resolver{}.Resolve(flag)
}

// Resolve picks the first of: the --config flag, LEARNLIT_DB_CONNECTION
// (after loading .env), the keyring, and the default path.
func (r Resolver) Resolve(flag string) (Target, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		return newTarget(flag, SourceFlag)
	}

	envFiles := r.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv does not override variables that are already set
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to load env file", "path", f, "error", err)
		}
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(constants.EnvConnection)); v != "" {
		return newTarget(v, SourceEnv)
	}

	lookup := r.Keyring
	if lookup == nil {
		lookup = keyring.GetConnectionString
	}
	v, err := lookup()
	switch {
	case err == nil && strings.TrimSpace(v) != "":
		return newTarget(strings.TrimSpace(v), SourceKeyring)
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("Keyring lookup failed", "error", err)
	}

	return newTarget(constants.DefaultConfigPath, SourceDefault)
}

func newTarget(value string, source Source) (Target, error) {
	kind := DetectKind(value)
	if kind == KindSQLite || kind == KindJSON {
		expanded, err := ExpandHome(value)
		if err != nil {
			return Target{}, err
		}
		value = expanded
	}
	return Target{Value: value, Kind: kind, Source: source}, nil
}

// Validate applies the rules a target must meet before it is opened.
// Passwords are only refused on the command line, where they would end up
// in shell history and process listings.
func (t Target) Validate() error {
	if t.Kind != KindPostgres {
		return nil
	}
	err := postgres.ValidateConnString(t.Value)
	if errors.Is(err, postgres.ErrEmbeddedCredentials) && t.Source != SourceFlag {
		return nil
	}
	return err
}

// Open builds the provider for t without initializing or loading it.
func Open(t Target) (storage.Provider, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	switch t.Kind {
	case KindPostgres:
		return postgres.New(t.Value), nil
	case KindRedis:
		return redis.New(t.Value), nil
	case KindJSON:
		return storage.NewJSONStore(t.Value), nil
	case KindMemory:
		return storage.NewMemoryStore(), nil
	default:
		return sqlite.NewStore(t.Value), nil
	}
}
