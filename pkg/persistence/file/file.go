// Package file provides file-based persistence, one JSON document per
// entity under the configured root directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

const (
	workflowsDir  = "workflows"
	executionsDir = "executions"
	configsDir    = "configs"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root       string
	workflows  *WorkflowRepository
	executions *ExecutionRepository
	configs    *APIConfigRepository
}

// NewPersistence creates file persistence rooted at root. A file:// prefix
// on root is accepted and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")

	return &Persistence{
		root:       cleanRoot,
		workflows:  &WorkflowRepository{root: cleanRoot},
		executions: &ExecutionRepository{root: cleanRoot},
		configs:    &APIConfigRepository{root: cleanRoot},
	}
}

func (p *Persistence) Workflows() persistence.WorkflowRepository { return p.workflows }

func (p *Persistence) Executions() persistence.ExecutionRepository { return p.executions }

func (p *Persistence) APIConfigs() persistence.APIConfigRepository { return p.configs }

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// writeDocument marshals v and writes it atomically under root/dir/id.json.
func writeDocument(root, dir, id string, v any) error {
	target := filepath.Join(root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	path := filepath.Join(target, id+".json")

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}

	return nil
}

// readDocument unmarshals root/dir/id.json into v, returning notFound when
// the file does not exist.
func readDocument(root, dir, id string, v any, notFound error) error {
	data, err := os.ReadFile(filepath.Join(root, dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return notFound
		}

		return fmt.Errorf("reading document: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}

	return nil
}

// deleteDocument removes root/dir/id.json, returning notFound when absent.
func deleteDocument(root, dir, id string, notFound error) error {
	err := os.Remove(filepath.Join(root, dir, id+".json"))
	if os.IsNotExist(err) {
		return notFound
	}

	return err
}

// listIDs returns the document IDs present under root/dir.
func listIDs(root, dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}

	return ids, nil
}
