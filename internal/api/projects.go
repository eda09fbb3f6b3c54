package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Project is a project row as returned by the list endpoints.
type Project struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	Status           string      `json:"status"`
	CreatedBy        ProjectUser `json:"createdBy"`
	CreatedAt        string      `json:"createdAt"`
	UpdatedAt        string      `json:"updatedAt"`
	TeamMembersCount int         `json:"teamMembersCount"`
	TasksCount       int         `json:"tasksCount"`
	Archived         bool        `json:"archived"`
}

// ProjectUser is the creator reference embedded in a project.
type ProjectUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProjectDetail is the expanded single-project view including its team.
type ProjectDetail struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	Status      string       `json:"status"`
	TeamMembers []TeamMember `json:"teamMembers"`
}

// ProjectOption is a dropdown entry.
type ProjectOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProjectQuery filters and pages the project list.
type ProjectQuery struct {
	Name          string
	Status        string
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

func (q ProjectQuery) values() url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
		v.Set("sortDirection", q.SortDirection)
	}
	return v
}

// CreateProjectRequest is the body for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Status      string `json:"status,omitempty"`
}

// UpdateProjectRequest is the body for updating a project; empty fields
// are left unchanged server-side.
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Status      string `json:"status,omitempty"`
}

// MyProjects lists projects the current user is a member of.
func (c *Client) MyProjects(ctx context.Context, q ProjectQuery) (Page[Project], error) {
	return get[Page[Project]](ctx, c, "api/projects/my-projects?"+q.values().Encode())
}

// Projects lists all projects (project-manager surface).
func (c *Client) Projects(ctx context.Context, q ProjectQuery) (Page[Project], error) {
	return get[Page[Project]](ctx, c, "api/projects?"+q.values().Encode())
}

// ProjectDetail fetches one project with its team members.
func (c *Client) ProjectDetail(ctx context.Context, projectID int64) (ProjectDetail, error) {
	return get[ProjectDetail](ctx, c, fmt.Sprintf("api/projects/%d/detail", projectID))
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	return do[Project](ctx, c, http.MethodPost, "api/projects", req)
}

// UpdateProject updates a project in place.
func (c *Client) UpdateProject(ctx context.Context, projectID int64, req UpdateProjectRequest) (Project, error) {
	return do[Project](ctx, c, http.MethodPatch, fmt.Sprintf("api/projects/%d", projectID), req)
}

// ArchiveProject archives a project. Archived projects disappear from the
// default list but are not deleted server-side.
func (c *Client) ArchiveProject(ctx context.Context, projectID int64) error {
	return doDiscard(ctx, c, http.MethodPatch, fmt.Sprintf("api/projects/%d/archive", projectID), nil)
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	return doDiscard(ctx, c, http.MethodDelete, fmt.Sprintf("api/projects/%d", projectID), nil)
}

// ProjectsDropdown lists id/name pairs for project pickers, optionally
// filtered by a search term.
func (c *Client) ProjectsDropdown(ctx context.Context, search string) ([]ProjectOption, error) {
	path := "api/projects/dropdown"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	page, err := get[Page[ProjectOption]](ctx, c, path)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}
