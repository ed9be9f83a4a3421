package files

import (
	"path/filepath"
)

const (
	// ConfigFileName is the YAML config inside the base directory.
	ConfigFileName = "config.yaml"
	// EnvFileName holds secrets loaded into the environment at startup.
	EnvFileName = ".env"
	// DefaultEventsFile is the event store path relative to the base directory.
	DefaultEventsFile = "events/event_data.json"
)

// Manager centralizes where pacli keeps files on disk.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.pacli (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	} else {
		basePath, err = ExpandPath(basePath)
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// ConfigPath resolves the config file location.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, ConfigFileName)
}

// EnvPath resolves the optional .env file location.
func (m *Manager) EnvPath() string {
	return filepath.Join(m.basePath, EnvFileName)
}

// Resolve turns a configured path into an absolute one. Relative paths are
// taken from the base directory; an empty path yields DefaultEventsFile.
func (m *Manager) Resolve(path string) string {
	if path == "" {
		path = DefaultEventsFile
	}
	if expanded, err := ExpandPath(path); err == nil {
		path = expanded
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.basePath, path)
}
