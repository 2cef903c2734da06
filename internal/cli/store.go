package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/moodlog/internal/constants"
	apperrors "github.com/julianstephens/moodlog/internal/errors"
	"github.com/julianstephens/moodlog/internal/keyring"
	"github.com/julianstephens/moodlog/internal/logger"
	"github.com/julianstephens/moodlog/internal/storage"
	"github.com/julianstephens/moodlog/internal/storage/postgres"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
)

// keyringLookup is swapped out in tests.
var keyringLookup = keyring.Connection.Get

// OpenStore picks the storage backend for config. A PostgreSQL URL must not
// carry a password; a connection string kept in the OS keyring is used when
// config is left at its default.
func OpenStore(config string) (storage.Provider, error) {
	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(err, "store it with 'moodlog keyring set', or use PGPASSWORD / .pgpass")
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	if config == "" || config == constants.DefaultConfigPath {
		connStr, err := keyringLookup()
		switch {
		case err == nil:
			logger.Debug("Using connection string from OS keyring")
			return postgres.New(connStr), nil
		case !stderrors.Is(err, keyring.ErrNotFound):
			logger.Debug("OS keyring lookup failed, falling back to SQLite", "error", err)
		}
		config = constants.DefaultConfigPath
	}

	path, err := ExpandHome(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is where logs live: the SQLite file's directory, or the default
// config directory for PostgreSQL.
func ConfigDir(store storage.Provider) string {
	if s, ok := store.(*sqlite.Store); ok {
		return filepath.Dir(s.GetConfigPath())
	}
	path, err := ExpandHome(constants.DefaultConfigPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(path)
}
