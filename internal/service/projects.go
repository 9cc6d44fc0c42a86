package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nibzard/task-manager/internal/storage"
	"github.com/nibzard/task-manager/internal/task"
)

// ProjectInput describes a new project. An empty ID is derived from the
// name.
type ProjectInput struct {
	ID          string
	Name        string
	Code        string
	Lab         string
	Path        string
	Status      string
	Description string
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a project name into a kebab-case ID.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// AddProject registers a project. IDs must be unique and codes are 4-5
// characters, unique regardless of case.
func (s *Service) AddProject(in ProjectInput) (task.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return task.Project{}, validationErr("project name is required")
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = Slugify(name)
	}
	if id == "" {
		return task.Project{}, validationErr("cannot derive a project ID from %q", name)
	}
	code := strings.TrimSpace(in.Code)
	if err := task.ValidateCode(code); err != nil {
		return task.Project{}, err
	}
	status := task.ProjectActive
	if in.Status != "" {
		var err error
		if status, err = task.ParseProjectStatus(in.Status); err != nil {
			return task.Project{}, err
		}
	}

	projects := s.store.LoadProjects()
	if _, exists := projects[id]; exists {
		return task.Project{}, validationErr("project %q already exists", id)
	}
	for otherID, p := range projects {
		if strings.EqualFold(p.Code, code) {
			return task.Project{}, validationErr("code %q is already used by project %q", code, otherID)
		}
	}

	p := task.Project{
		ID:           id,
		Name:         name,
		Code:         code,
		Lab:          strings.TrimSpace(in.Lab),
		Path:         strings.TrimSpace(in.Path),
		Status:       status,
		LastAccessed: s.Today(),
		Description:  strings.TrimSpace(in.Description),
	}
	detectProjectFiles(&p)
	projects[id] = p
	if err := s.store.SaveProjects(projects); err != nil {
		return task.Project{}, err
	}
	s.log.Operation("add_project", fmt.Sprintf("Project %s (%s): %s", id, code, name))
	return p, nil
}

// detectProjectFiles records which well-known files exist under the
// project path.
func detectProjectFiles(p *task.Project) {
	if p.Path == "" {
		return
	}
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(p.Path, name))
		return err == nil
	}
	p.HasClaudeMD = exists("CLAUDE.md")
	p.HasReadme = exists("README.md")
	p.HasDocs = exists("docs")
}

// Projects returns the project registry.
func (s *Service) Projects() task.Projects {
	return s.store.LoadProjects()
}

// ProjectCodes maps project IDs to display codes.
func (s *Service) ProjectCodes() map[string]string {
	return s.store.ProjectCodes()
}

// UpdateProjectStatus changes the status of a project given by ID or code.
func (s *Service) UpdateProjectStatus(identifier, status string) (task.Project, error) {
	st, err := task.ParseProjectStatus(status)
	if err != nil {
		return task.Project{}, err
	}
	id, err := s.resolveProject(identifier)
	if err != nil {
		return task.Project{}, err
	}
	projects := s.store.LoadProjects()
	p := projects[id]
	p.Status = st
	p.LastAccessed = s.Today()
	projects[id] = p
	if err := s.store.SaveProjects(projects); err != nil {
		return task.Project{}, err
	}
	s.log.Operation("update_project", fmt.Sprintf("Project %s: status %s", id, st))
	p.ID = id
	return p, nil
}

// Backups lists bucket backups, newest first.
func (s *Service) Backups() ([]storage.Backup, error) {
	return s.store.ListBackups()
}

// Restore replaces the bucket with a backup.
func (s *Service) Restore(name string) (*task.Bucket, error) {
	return s.store.RestoreBackup(name)
}
