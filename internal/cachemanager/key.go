package cachemanager

import (
	"fmt"
	"os"
)

// FileKey identifies one version of a file as seen by one lexer engine.
type FileKey string

// KeyForFile builds the cache key for path. Modification time and size
// are part of the key, so any save produces a new key.
func KeyForFile(path, engine string) (FileKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return FileKey(fmt.Sprintf("%s|%s|%d|%d", engine, path, info.ModTime().UnixNano(), info.Size())), nil
}
