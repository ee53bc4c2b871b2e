package profile

import (
	"strings"
	"time"
)

type Role string

const (
	RoleNone       Role = ""
	RoleCaregiver  Role = "caregiver"
	RoleCareseeker Role = "careseeker"
)

// ParseRole normalizes a stored or submitted role. Unknown values map to RoleNone.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCaregiver:
		return RoleCaregiver
	case RoleCareseeker:
		return RoleCareseeker
	default:
		return RoleNone
	}
}

func (r Role) Valid() bool {
	return r == RoleCaregiver || r == RoleCareseeker
}

func (r Role) String() string {
	return string(r)
}

// Counterpart is the role a user of r browses for.
func (r Role) Counterpart() Role {
	switch r {
	case RoleCaregiver:
		return RoleCareseeker
	case RoleCareseeker:
		return RoleCaregiver
	default:
		return RoleNone
	}
}

// Profile is the per-user marketplace record. Only one of Caregiver and
// Careseeker is populated, matching Role.
type Profile struct {
	UserID              string
	Email               string
	FullName            string
	AvatarURL           string
	Bio                 string
	Location            string
	Role                Role
	OnboardingCompleted bool
	Caregiver           *CaregiverDetails
	Careseeker          *CareseekerDetails
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type CaregiverDetails struct {
	CareTypes      []string
	Experience     string
	HourlyRate     float64
	Availability   map[string]bool
	Timing         string
	Certifications []string
}

type CareseekerDetails struct {
	CareNeeds    []string
	CareDetails  string
	Schedule     map[string]bool
	CareHours    []string
	UrgencyLevel string
	BudgetMin    float64
	BudgetMax    float64
	ZipCode      string
}

// View is the slice of a profile that drives access routing.
type View struct {
	Role                Role
	OnboardingCompleted bool
}

func (p Profile) View() View {
	return View{Role: p.Role, OnboardingCompleted: p.OnboardingCompleted}
}

// Consistent reports whether the profile satisfies
// onboarding_completed => role is set.
func (p Profile) Consistent() bool {
	return !p.OnboardingCompleted || p.Role.Valid()
}

// Categories returns care types for caregivers and care needs for careseekers.
func (p Profile) Categories() []string {
	switch {
	case p.Role == RoleCaregiver && p.Caregiver != nil:
		return p.Caregiver.CareTypes
	case p.Role == RoleCareseeker && p.Careseeker != nil:
		return p.Careseeker.CareNeeds
	default:
		return nil
	}
}

// CompletionPercent scores seven role-specific fields, rounded to the nearest integer.
func (p Profile) CompletionPercent() int {
	filled := 0
	for _, ok := range []bool{
		strings.TrimSpace(p.FullName) != "",
		strings.TrimSpace(p.AvatarURL) != "",
		strings.TrimSpace(p.Bio) != "",
		strings.TrimSpace(p.Location) != "",
	} {
		if ok {
			filled++
		}
	}

	switch p.Role {
	case RoleCaregiver:
		if d := p.Caregiver; d != nil {
			filled += countTrue(len(d.CareTypes) > 0, d.Experience != "", d.HourlyRate > 0)
		}
	case RoleCareseeker:
		if d := p.Careseeker; d != nil {
			filled += countTrue(len(d.CareNeeds) > 0, d.UrgencyLevel != "", d.BudgetMax > 0)
		}
	}

	const fields = 7
	return (filled*100 + fields/2) / fields
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
