package profile

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"caregiver":    RoleCaregiver,
		" CareSeeker ": RoleCareseeker,
		"":             RoleNone,
		"admin":        RoleNone,
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestCompletionPercent(t *testing.T) {
	p := Profile{FullName: "Sarah", Location: "Austin", Role: RoleCaregiver}
	if got := p.CompletionPercent(); got != 29 {
		t.Fatalf("expected 29, got %d", got)
	}

	p.AvatarURL = "https://cdn.example.com/a.png"
	p.Bio = "Experienced"
	p.Caregiver = &CaregiverDetails{CareTypes: []string{"elderly"}, Experience: "3-5", HourlyRate: 25}
	if got := p.CompletionPercent(); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}

	seeker := Profile{Role: RoleCareseeker, Careseeker: &CareseekerDetails{CareNeeds: []string{"child"}}}
	if got := seeker.CompletionPercent(); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
}

func TestConsistent(t *testing.T) {
	if (Profile{OnboardingCompleted: true}).Consistent() {
		t.Fatalf("completed profile without role must be inconsistent")
	}
	if !(Profile{Role: RoleCareseeker, OnboardingCompleted: true}).Consistent() {
		t.Fatalf("completed careseeker must be consistent")
	}
	if !(Profile{}).Consistent() {
		t.Fatalf("blank profile must be consistent")
	}
}

func TestNormalizeWeekMap(t *testing.T) {
	out, unknown := NormalizeWeekMap(map[string]bool{"Monday": true, "funday": true})
	if len(out) != 7 || !out["monday"] || out["tuesday"] {
		t.Fatalf("unexpected week map: %+v", out)
	}
	if len(unknown) != 1 || unknown[0] != "funday" {
		t.Fatalf("unexpected unknown days: %+v", unknown)
	}
}
