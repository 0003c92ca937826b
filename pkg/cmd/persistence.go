package cmd

import (
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence/file"
)

// NewPersistence creates the persistence layer for a database URL. Only
// file:// storage is wired today; the URL keeps the door open for others.
func NewPersistence(databaseURL string) persistence.Persistence {
	return file.NewPersistence(databaseURL)
}
