package api

import (
	"context"
	"fmt"
	"net/http"
)

// TeamMember is a user assigned to a project.
type TeamMember struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"userId"`
	Profile        string `json:"profile"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

// TeamMemberWithWorkload adds the member's open-task count.
type TeamMemberWithWorkload struct {
	TeamMember
	Workload int `json:"workload"`
}

// SelectableMember is a user eligible to be added to a project.
type SelectableMember struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Profile string `json:"profile"`
}

// Specialization is a role label attachable to a team member.
type Specialization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AddMemberRequest assigns a user to a project under a specialization.
type AddMemberRequest struct {
	UserID           int64 `json:"userId"`
	SpecializationID int64 `json:"specializationId"`
}

// MyTeam pages through the current user's teammates on a project.
func (c *Client) MyTeam(ctx context.Context, projectID int64, page, size int) (Page[TeamMember], error) {
	return get[Page[TeamMember]](ctx, c,
		fmt.Sprintf("api/team-members/projects/%d/my-team?page=%d&size=%d", projectID, page, size))
}

// ProjectMembers pages through all members of a project.
func (c *Client) ProjectMembers(ctx context.Context, projectID int64, page, size int) (Page[TeamMember], error) {
	return get[Page[TeamMember]](ctx, c,
		fmt.Sprintf("api/team-members/projects/%d/member-list?page=%d&size=%d", projectID, page, size))
}

// MembersWithWorkload pages through project members together with their
// open-task counts, for assignment decisions.
func (c *Client) MembersWithWorkload(ctx context.Context, projectID int64, page, size int) (Page[TeamMemberWithWorkload], error) {
	return get[Page[TeamMemberWithWorkload]](ctx, c,
		fmt.Sprintf("api/team-members/projects/%d/members-with-workload?page=%d&size=%d", projectID, page, size))
}

// SelectableMembers pages through users who can still be added to the
// project.
func (c *Client) SelectableMembers(ctx context.Context, projectID int64, page, size int) (Page[SelectableMember], error) {
	return get[Page[SelectableMember]](ctx, c,
		fmt.Sprintf("api/team-members/projects/%d/select-member?page=%d&size=%d", projectID, page, size))
}

// Specializations lists the available specializations. Callers treat a
// failure here as non-fatal and keep whatever list they already have.
func (c *Client) Specializations(ctx context.Context) ([]Specialization, error) {
	return get[[]Specialization](ctx, c, "api/specializations")
}

// AddTeamMember assigns a user to a project.
func (c *Client) AddTeamMember(ctx context.Context, projectID int64, req AddMemberRequest) error {
	return doDiscard(ctx, c, http.MethodPost,
		fmt.Sprintf("api/team-members/projects/%d/add", projectID), req)
}

// RemoveTeamMember removes a member (by membership id, not user id).
func (c *Client) RemoveTeamMember(ctx context.Context, memberID int64) error {
	return doDiscard(ctx, c, http.MethodDelete, fmt.Sprintf("api/team-members/%d", memberID), nil)
}
