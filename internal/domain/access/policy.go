package access

import (
	"strings"

	"github.com/riskibarqy/carelink/internal/domain/profile"
)

const (
	PathHome                 = "/"
	PathDashboard            = "/dashboard"
	PathProfile              = "/profile"
	PathOnboarding           = "/onboarding"
	PathRoleSelection        = "/onboarding/role-selection"
	PathCaregiverOnboarding  = "/onboarding/caregiver"
	PathCareseekerOnboarding = "/onboarding/careseeker"
	PathAuth                 = "/auth"
	PathAuthCallback         = "/auth/callback"
)

type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
)

// Rule identifies the policy branch that produced a decision.
type Rule string

const (
	RuleGuestProtected      Rule = "guest_protected"
	RuleAuthFlowNoProfile   Rule = "auth_flow_no_profile"
	RuleAuthFlowOnboarding  Rule = "auth_flow_onboarding"
	RuleAuthFlowCompleted   Rule = "auth_flow_completed"
	RuleMemberNoProfile     Rule = "member_no_profile"
	RuleMemberOnboarding    Rule = "member_onboarding"
	RuleMemberCompleted     Rule = "member_completed"
	RulePass                Rule = "pass"
	RuleCallback            Rule = "callback"
	RuleIdentityUnavailable Rule = "identity_unavailable"
	RuleEvaluationRecovered Rule = "evaluation_recovered"
)

// State is everything the policy knows about the caller. A nil Profile means
// the profile is missing or could not be loaded.
type State struct {
	Authenticated bool
	Profile       *profile.View
}

type Decision struct {
	Action Action
	Target string
	Rule   Rule
}

func (d Decision) Redirect() bool {
	return d.Action == ActionRedirect
}

func allow(rule Rule) Decision {
	return Decision{Action: ActionAllow, Rule: rule}
}

func redirect(target string, rule Rule) Decision {
	return Decision{Action: ActionRedirect, Target: target, Rule: rule}
}

// Allow builds a pass-through decision for callers that bypass the policy.
func Allow(rule Rule) Decision {
	return allow(rule)
}

// Decide evaluates the redirect policy for one request. It is pure: the same
// path and state always yield the same decision.
func Decide(path string, state State) Decision {
	path = normalizePath(path)

	if !state.Authenticated {
		if isProtected(path) {
			return redirect(PathHome, RuleGuestProtected)
		}
		return allow(RulePass)
	}

	if isCallback(path) {
		return allow(RuleCallback)
	}

	if isAuthFlow(path) {
		if state.Profile == nil {
			return redirect(PathRoleSelection, RuleAuthFlowNoProfile)
		}
		if state.Profile.OnboardingCompleted {
			return redirect(PathDashboard, RuleAuthFlowCompleted)
		}
		return redirect(OnboardingTarget(state.Profile.Role), RuleAuthFlowOnboarding)
	}

	requiresOnboarding := hasPrefixSegment(path, PathDashboard) || hasPrefixSegment(path, PathProfile)
	switch {
	case state.Profile == nil:
		if requiresOnboarding {
			return redirect(PathRoleSelection, RuleMemberNoProfile)
		}
	case !state.Profile.OnboardingCompleted:
		if requiresOnboarding {
			return redirect(OnboardingTarget(state.Profile.Role), RuleMemberOnboarding)
		}
	default:
		if hasPrefixSegment(path, PathOnboarding) {
			return redirect(PathDashboard, RuleMemberCompleted)
		}
	}
	return allow(RulePass)
}

// NeedsProfile reports whether an authenticated caller's profile can change
// the decision for path. Callers may skip the profile lookup when it cannot.
func NeedsProfile(path string) bool {
	path = normalizePath(path)
	if isCallback(path) {
		return false
	}
	return isAuthFlow(path) || isProtected(path)
}

// OnboardingTarget is the page an incomplete profile is sent to. A missing or
// unknown role always resolves to role selection.
func OnboardingTarget(role profile.Role) string {
	switch role {
	case profile.RoleCaregiver:
		return PathCaregiverOnboarding
	case profile.RoleCareseeker:
		return PathCareseekerOnboarding
	default:
		return PathRoleSelection
	}
}

// LandingTarget is where a freshly signed in caller should end up.
func LandingTarget(view *profile.View) string {
	switch {
	case view == nil:
		return PathRoleSelection
	case view.OnboardingCompleted:
		return PathDashboard
	default:
		return OnboardingTarget(view.Role)
	}
}

func isProtected(path string) bool {
	return hasPrefixSegment(path, PathDashboard) ||
		hasPrefixSegment(path, PathOnboarding) ||
		hasPrefixSegment(path, PathProfile)
}

func isAuthFlow(path string) bool {
	return hasPrefixSegment(path, PathAuth) && !isCallback(path)
}

func isCallback(path string) bool {
	return hasPrefixSegment(path, PathAuthCallback)
}

func hasPrefixSegment(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
