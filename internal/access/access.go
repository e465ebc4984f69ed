// Package access decides where a user may navigate given their current
// account state. Every decision is computed from an explicit Subject.
package access

import (
	"slices"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	PathLogin           = "/login"
	PathCompleteProfile = "/complete-profile"
	PathPendingApproval = "/pending-approval"
	PathDashboard       = "/dashboard"
)

type Decision string

const (
	RedirectToLogin           Decision = "redirect-to-login"
	RedirectToCompleteProfile Decision = "redirect-to-complete-profile"
	RedirectToPendingApproval Decision = "redirect-to-pending-approval"
	RedirectToDashboard       Decision = "redirect-to-dashboard"
	Allow                     Decision = "allow"
)

// Target returns the path a redirect decision points at, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectToLogin:
		return PathLogin
	case RedirectToCompleteProfile:
		return PathCompleteProfile
	case RedirectToPendingApproval:
		return PathPendingApproval
	case RedirectToDashboard:
		return PathDashboard
	}
	return ""
}

// Subject is a snapshot of the caller taken for a single request.
type Subject struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Role             string
	LinkedEmployeeID *uuid.UUID
	IsApproved       bool
}

func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Subject) HasEmployee() bool {
	return s != nil && s.LinkedEmployeeID != nil
}

// Resolve evaluates the rules in order and returns the first match.
// A nil or empty allowedRoles means the path has no role restriction.
func Resolve(subject *Subject, path string, allowedRoles []string) Decision {
	if subject == nil {
		return RedirectToLogin
	}

	if subject.Role == RoleUser && subject.LinkedEmployeeID == nil {
		if path == PathCompleteProfile {
			return Allow
		}
		return RedirectToCompleteProfile
	}

	if !subject.IsApproved {
		if path == PathPendingApproval {
			return Allow
		}
		return RedirectToPendingApproval
	}

	if path == PathPendingApproval || path == PathCompleteProfile {
		return RedirectToDashboard
	}

	if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, subject.Role) {
		return RedirectToDashboard
	}

	return Allow
}
