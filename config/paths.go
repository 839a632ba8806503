package config

import "path/filepath"

// Root returns the directory of the loaded project file. Relative paths in
// the project resolve against it so sync behaves the same from any working
// directory.
func (p Project) Root() string {
	if p.rootDir == "" {
		return "."
	}
	return p.rootDir
}

// LockPath returns the lock file location, which always sits next to the
// project file.
func (p Project) LockPath() string {
	return filepath.Join(p.Root(), DefaultLockFileName)
}

// IconPath resolves an entry icon against the assets directory.
func (p Project) IconPath(icon string) string {
	return filepath.Join(p.Root(), p.AssetsDir, icon)
}

// PlacePath resolves a place file against the project root. Absolute paths
// are honored as-is so build outputs outside the project tree can be
// published without copying.
func (p Project) PlacePath(entry PlaceEntry) string {
	if filepath.IsAbs(entry.FilePath) {
		return entry.FilePath
	}
	return filepath.Join(p.Root(), entry.FilePath)
}
