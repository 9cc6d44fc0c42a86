package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/task-manager/internal/format"
	"github.com/nibzard/task-manager/internal/service"
)

// addProjectCommand registers a project. The ID defaults to a slug of the
// name.
func (a *app) addProjectCommand(args []string) error {
	fs := a.flagSet("add-project")
	var in service.ProjectInput
	fs.StringVar(&in.Code, "code", "", "Display code, 4-5 characters (required)")
	fs.StringVar(&in.ID, "id", "", "Project ID (default: slug of the name)")
	fs.StringVar(&in.Path, "path", "", "Project directory")
	fs.StringVar(&in.Lab, "lab", "", "Lab or group")
	fs.StringVar(&in.Status, "status", "", "Status (active, paused, completed)")
	fs.StringVar(&in.Description, "description", "", "Description")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	in.Name = strings.Join(positional, " ")

	p, err := a.svc.AddProject(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added project %s (%s): %s\n", p.ID, p.Code, p.Name)
	return nil
}

// projectsCommand lists the registry.
func (a *app) projectsCommand(args []string) error {
	fs := a.flagSet("projects")
	outFormat := formatFlag(fs)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 0, "projects"); err != nil {
		return err
	}
	projects := a.svc.Projects()
	return a.write(*outFormat, projects, func() string {
		return format.Projects(projects, a.styles)
	})
}

// projectStatusCommand sets a project status.
func (a *app) projectStatusCommand(args []string) error {
	fs := a.flagSet("project-status")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 2, "project-status <id-or-code> <status>"); err != nil {
		return err
	}
	p, err := a.svc.UpdateProjectStatus(positional[0], positional[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Project %s is now %s\n", p.ID, p.Status)
	return nil
}
