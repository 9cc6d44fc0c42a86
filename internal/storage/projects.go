package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"

	"github.com/nibzard/task-manager/internal/task"
)

// LoadProjects reads the project registry. The file may be a bare
// ID → project object or one wrapped in a "projects" key. A missing or
// unreadable registry degrades to an empty one; the problem is logged.
func (s *Store) LoadProjects() task.Projects {
	path := s.opts.ProjectsPath
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("projects file not found", "path", path)
		} else {
			s.log.Warn("failed to read projects", "path", path, "err", err)
		}
		return task.Projects{}
	}

	raw, isWrapped, err := registryObject(data)
	if err != nil {
		s.log.Warn("failed to parse projects", "path", path, "err", err)
		return task.Projects{}
	}

	projects, err := task.DecodeProjects(data, isWrapped)
	if err != nil {
		s.log.Warn("failed to decode projects", "path", path, "err", err)
		return task.Projects{}
	}
	s.report("projects", path, task.ValidateProjects(raw))
	s.log.Debug("loaded projects", "count", len(projects))
	return projects
}

// registryObject returns the object holding the projects keyed by ID and
// whether it was wrapped in a "projects" key.
func registryObject(data []byte) ([]byte, bool, error) {
	if !gjson.ValidBytes(data) {
		return nil, false, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, false, errors.New("top level is not an object")
	}
	wrapped := root.Get("projects")
	if !wrapped.Exists() {
		return data, false, nil
	}
	if !wrapped.IsObject() {
		return nil, true, errors.New(`"projects" is not an object`)
	}
	return []byte(wrapped.Raw), true, nil
}

// ValidateProjectsFile validates the registry file on disk. A missing file
// is reported as fs.ErrNotExist.
func (s *Store) ValidateProjectsFile() (*task.ValidationResult, error) {
	data, err := os.ReadFile(s.opts.ProjectsPath)
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	raw, _, err := registryObject(data)
	if err != nil {
		return &task.ValidationResult{Errors: []error{err}}, nil
	}
	return task.ValidateProjects(raw), nil
}

// SaveProjects atomically writes the registry, wrapped in a "projects" key
// when non-empty.
func (s *Store) SaveProjects(projects task.Projects) error {
	data, err := task.EncodeProjects(projects)
	if err != nil {
		s.log.Failure("save_projects", err)
		return err
	}
	if err := WriteFileAtomic(s.opts.ProjectsPath, data, 0644); err != nil {
		s.log.Failure("save_projects", err)
		return fmt.Errorf("save projects: %w", err)
	}
	s.log.Debug("saved projects", "count", len(projects))
	return nil
}

// ResolveProjectIdentifier maps a project ID or code to a project ID.
func (s *Store) ResolveProjectIdentifier(identifier string) (string, bool) {
	return s.LoadProjects().Resolve(identifier)
}

// ProjectCodes maps project IDs to codes, defaulting to the first five
// characters of the ID.
func (s *Store) ProjectCodes() map[string]string {
	return s.LoadProjects().Codes()
}

// ProjectName returns the display name of a project, or the ID itself when
// unknown.
func (s *Store) ProjectName(id string) string {
	if p, ok := s.LoadProjects().Get(id); ok {
		return p.DisplayName()
	}
	return id
}
