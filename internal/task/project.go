package task

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Project is one entry of the project registry. The registry key is the
// project ID; Project does not repeat it on disk.
type Project struct {
	ID           string        `json:"-" yaml:"id,omitempty"`
	Name         string        `json:"name" yaml:"name"`
	Code         string        `json:"code,omitempty" yaml:"code,omitempty"`
	Lab          string        `json:"lab,omitempty" yaml:"lab,omitempty"`
	Path         string        `json:"path,omitempty" yaml:"path,omitempty"`
	Status       ProjectStatus `json:"status,omitempty" yaml:"status,omitempty"`
	LastAccessed string        `json:"last_accessed,omitempty" yaml:"last_accessed,omitempty"`
	HasClaudeMD  bool          `json:"has_claude_md" yaml:"has_claude_md"`
	HasReadme    bool          `json:"has_readme" yaml:"has_readme"`
	HasDocs      bool          `json:"has_docs" yaml:"has_docs"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`

	// Extra holds keys this version does not know so they survive a save.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// projectFields is kept in sync with the json tags above.
var projectFields = []string{
	"name", "code", "lab", "path", "status", "last_accessed",
	"has_claude_md", "has_readme", "has_docs", "description",
}

type projectAlias Project

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (p *Project) UnmarshalJSON(data []byte) error {
	var alias projectAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := p.ID
	*p = Project(alias)
	p.ID = id
	for _, key := range projectFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		p.Extra = raw
	}
	return nil
}

// MarshalJSON writes known fields followed by preserved unknown keys.
func (p Project) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(projectAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return data, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// DefaultCode returns the declared code. A missing or empty code falls back
// to the first five characters of the ID.
func (p *Project) DefaultCode() string {
	if p.Code != "" {
		return p.Code
	}
	return truncateRunes(p.ID, 5)
}

// DisplayName returns the name, or the ID when the name is empty.
func (p *Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// ValidateCode checks that a project code is 4 or 5 characters long.
func ValidateCode(code string) error {
	n := utf8.RuneCountInString(code)
	if n < 4 || n > 5 {
		return fmt.Errorf("%w: project code must be 4-5 characters, got %q", ErrValidation, code)
	}
	return nil
}

// Projects is the project registry keyed by project ID.
type Projects map[string]Project

// IDs returns the registry keys in sorted order.
func (ps Projects) IDs() []string {
	ids := make([]string, 0, len(ps))
	for id := range ps {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Resolve maps an identifier to a project ID: an exact ID match wins,
// otherwise the first project (in ID order) whose code matches
// case-insensitively.
func (ps Projects) Resolve(identifier string) (string, bool) {
	if identifier == "" {
		return "", false
	}
	if _, ok := ps[identifier]; ok {
		return identifier, true
	}
	for _, id := range ps.IDs() {
		p := ps[id]
		if p.Code != "" && strings.EqualFold(p.Code, identifier) {
			return id, true
		}
	}
	return "", false
}

// Codes maps every project ID to its code.
func (ps Projects) Codes() map[string]string {
	codes := make(map[string]string, len(ps))
	for id, p := range ps {
		p.ID = id
		codes[id] = p.DefaultCode()
	}
	return codes
}

// Get returns the project with its ID filled in.
func (ps Projects) Get(id string) (Project, bool) {
	p, ok := ps[id]
	if !ok {
		return Project{}, false
	}
	p.ID = id
	return p, true
}

// DecodeProjects accepts either a bare ID → project map or one wrapped in
// a "projects" key. wrapped reports which shape was found.
func DecodeProjects(data []byte, wrapped bool) (Projects, error) {
	var ps Projects
	if wrapped {
		var envelope struct {
			Projects Projects `json:"projects"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		ps = envelope.Projects
	} else if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if ps == nil {
		ps = Projects{}
	}
	for id, p := range ps {
		p.ID = id
		ps[id] = p
	}
	return ps, nil
}

// EncodeProjects writes the registry wrapped in a "projects" key. An empty
// registry is written as a bare empty object.
func EncodeProjects(ps Projects) ([]byte, error) {
	var v any = ps
	if len(ps) > 0 {
		v = map[string]Projects{"projects": ps}
	} else if ps == nil {
		v = Projects{}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal projects: %w", err)
	}
	return append(data, '\n'), nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
