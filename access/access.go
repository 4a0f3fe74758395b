// Package access implements the role projections over the shared request
// collection and the mutation entrypoints each role may invoke. Each role is
// its own actor variant; there are no role conditionals outside this
// package.
package access

import (
	"fmt"

	"github.com/kafaa-plus/kafaa-maintenance-api/lifecycle"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
)

// Actor is the role-scoped view of the system for one signed-in profile.
type Actor interface {
	// Role returns the actor's role constant.
	Role() string
	// Profile returns the resolved profile behind this actor.
	Profile() models.UserProfile
	// Visible filters the full collection down to what this role may read.
	Visible(all []models.MaintenanceRequest) []models.MaintenanceRequest
	// Authorize checks a mutation against the target request and returns
	// the mutation that will actually run. Roles may substitute a
	// different mutation (supervisor status updates become a no-op).
	Authorize(m lifecycle.Mutation, target models.MaintenanceRequest) (lifecycle.Mutation, error)
	// Create inserts a new request into the collection for roles permitted
	// to do so. It returns the updated collection and the created record,
	// or a nil record when the role's creation path is a no-op.
	Create(all []models.MaintenanceRequest, req models.MaintenanceRequest) ([]models.MaintenanceRequest, *models.MaintenanceRequest, error)
}

// PermissionError signals a mutation or operation a role may not invoke.
type PermissionError struct {
	Role   string
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Action)
}

// ActorFor returns the actor variant for the profile's role.
func ActorFor(profile models.UserProfile) (Actor, error) {
	switch profile.Role {
	case models.RoleCustomer:
		return customerActor{profile: profile}, nil
	case models.RoleTechnician:
		return technicianActor{profile: profile}, nil
	case models.RoleAdmin:
		return adminActor{profile: profile}, nil
	case models.RoleSupervisor:
		return supervisorActor{profile: profile}, nil
	}
	return nil, &models.ValidationError{Field: "role", Value: profile.Role}
}

// prepend inserts req at position 0: the collection is newest-first and
// updates never reorder it.
func prepend(all []models.MaintenanceRequest, req models.MaintenanceRequest) []models.MaintenanceRequest {
	out := make([]models.MaintenanceRequest, 0, len(all)+1)
	out = append(out, req)
	return append(out, all...)
}

// customerActor sees and pays for its own requests, keyed by contact
// identifier, and creates new ones.
type customerActor struct {
	profile models.UserProfile
}

func (a customerActor) Role() string                { return models.RoleCustomer }
func (a customerActor) Profile() models.UserProfile { return a.profile }

func (a customerActor) owns(req models.MaintenanceRequest) bool {
	return req.CustomerPhone != nil && *req.CustomerPhone == a.profile.PhoneOrCode
}

func (a customerActor) Visible(all []models.MaintenanceRequest) []models.MaintenanceRequest {
	out := make([]models.MaintenanceRequest, 0)
	for _, r := range all {
		if a.owns(r) {
			out = append(out, r)
		}
	}
	return out
}

func (a customerActor) Authorize(m lifecycle.Mutation, target models.MaintenanceRequest) (lifecycle.Mutation, error) {
	settlement, ok := m.(lifecycle.PaymentSettlement)
	if !ok {
		return nil, &PermissionError{Role: a.Role(), Action: "update requests"}
	}
	if !a.owns(target) {
		return nil, &PermissionError{Role: a.Role(), Action: "pay for another customer's request"}
	}
	return settlement, nil
}

func (a customerActor) Create(all []models.MaintenanceRequest, req models.MaintenanceRequest) ([]models.MaintenanceRequest, *models.MaintenanceRequest, error) {
	return prepend(all, req), &req, nil
}

// technicianActor sees requests assigned to it or still unassigned, drives
// the status machine and confirms cash settlement.
type technicianActor struct {
	profile models.UserProfile
}

func (a technicianActor) Role() string                { return models.RoleTechnician }
func (a technicianActor) Profile() models.UserProfile { return a.profile }

func (a technicianActor) Visible(all []models.MaintenanceRequest) []models.MaintenanceRequest {
	out := make([]models.MaintenanceRequest, 0)
	for _, r := range all {
		if r.TechnicianName == nil || *r.TechnicianName == "" || *r.TechnicianName == a.profile.Name {
			out = append(out, r)
		}
	}
	return out
}

func (a technicianActor) Authorize(m lifecycle.Mutation, target models.MaintenanceRequest) (lifecycle.Mutation, error) {
	return m, nil
}

func (a technicianActor) Create(all []models.MaintenanceRequest, req models.MaintenanceRequest) ([]models.MaintenanceRequest, *models.MaintenanceRequest, error) {
	return all, nil, &PermissionError{Role: a.Role(), Action: "create requests"}
}

// adminActor has full visibility and full mutation rights. Request creation
// by admin is an intentional no-op placeholder: the endpoint exists but is
// not wired to collection mutation.
type adminActor struct {
	profile models.UserProfile
}

func (a adminActor) Role() string                { return models.RoleAdmin }
func (a adminActor) Profile() models.UserProfile { return a.profile }

func (a adminActor) Visible(all []models.MaintenanceRequest) []models.MaintenanceRequest {
	return all
}

func (a adminActor) Authorize(m lifecycle.Mutation, target models.MaintenanceRequest) (lifecycle.Mutation, error) {
	return m, nil
}

func (a adminActor) Create(all []models.MaintenanceRequest, req models.MaintenanceRequest) ([]models.MaintenanceRequest, *models.MaintenanceRequest, error) {
	return all, nil, nil
}

// supervisorActor observes and annotates: full visibility, general field
// edits allowed, but status-only updates are wired to a no-op and the
// supervisor never drives payment.
type supervisorActor struct {
	profile models.UserProfile
}

func (a supervisorActor) Role() string                { return models.RoleSupervisor }
func (a supervisorActor) Profile() models.UserProfile { return a.profile }

func (a supervisorActor) Visible(all []models.MaintenanceRequest) []models.MaintenanceRequest {
	return all
}

func (a supervisorActor) Authorize(m lifecycle.Mutation, target models.MaintenanceRequest) (lifecycle.Mutation, error) {
	switch m.(type) {
	case lifecycle.StatusChange:
		return lifecycle.NoOp{}, nil
	case lifecycle.PaymentSettlement:
		return nil, &PermissionError{Role: a.Role(), Action: "settle payments"}
	}
	return m, nil
}

func (a supervisorActor) Create(all []models.MaintenanceRequest, req models.MaintenanceRequest) ([]models.MaintenanceRequest, *models.MaintenanceRequest, error) {
	return all, nil, &PermissionError{Role: a.Role(), Action: "create requests"}
}
