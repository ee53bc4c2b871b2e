package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/carelink/internal/domain/profile"
)

var seedUpdatedAt = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

type seedCaregiver struct {
	name       string
	location   string
	bio        string
	careType   string
	experience string
	rate       float64
	days       []string
	timing     string
}

type seedCareseeker struct {
	name     string
	location string
	careNeed string
	timing   string
}

var seedCaregivers = []seedCaregiver{
	{"Sarah Johnson", "New York, NY", "Compassionate caregiver with a passion for helping others. Specialized in elderly care and dementia support.", "elderly", "5-10", 25, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, "9 AM - 6 PM"},
	{"Michael Chen", "Los Angeles, CA", "Experienced in pediatric care and special needs support. Certified in first aid and CPR.", "child", "3-5", 28, []string{"saturday", "sunday"}, "Flexible Hours"},
	{"Emma Wilson", "Chicago, IL", "Dedicated to providing quality care for individuals with disabilities. Trained in physical therapy assistance.", "special_needs", "3-5", 30, []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}, "8 AM - 4 PM"},
	{"David Brown", "Miami, FL", "Specialized in post-surgery care and rehabilitation. Strong background in medical assistance.", "medical", "5-10", 32, []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}, "Full Time"},
	{"Lisa Martinez", "Seattle, WA", "Expert in dementia care and Alzheimer's support. Certified in memory care techniques.", "elderly", "5-10", 27, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, "7 AM - 3 PM"},
	{"James Wilson", "Boston, MA", "Specialized in mental health support and behavioral care. Trained in crisis intervention.", "companion", "5-10", 29, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, "Evening Shifts"},
}

var seedCareseekers = []seedCareseeker{
	{"Sophie Anderson", "Portland, OR", "elderly", "9 AM - 5 PM"},
	{"Raj Patel", "Austin, TX", "child", "Weekends"},
	{"Maria Garcia", "Denver, CO", "special_needs", "Flexible Hours"},
	{"John Smith", "Phoenix, AZ", "elderly", "Night Shift"},
	{"Yuki Tanaka", "San Francisco, CA", "child", "After School"},
	{"Olivia Lee", "Washington, DC", "special_needs", "Full Time"},
	{"Carlos Rodriguez", "Houston, TX", "elderly", "Weekdays"},
	{"Aisha Khan", "Atlanta, GA", "child", "Evenings"},
}

// SeedProfiles returns completed demo profiles for local runs without a database.
func SeedProfiles() []profile.Profile {
	out := make([]profile.Profile, 0, len(seedCaregivers)+len(seedCareseekers))
	for i, s := range seedCaregivers {
		availability, _ := profile.NormalizeWeekMap(weekMap(s.days))
		out = append(out, profile.Profile{
			UserID:              fmt.Sprintf("seed-caregiver-%02d", i+1),
			FullName:            s.name,
			Bio:                 s.bio,
			Location:            s.location,
			Role:                profile.RoleCaregiver,
			OnboardingCompleted: true,
			Caregiver: &profile.CaregiverDetails{
				CareTypes:    []string{s.careType},
				Experience:   s.experience,
				HourlyRate:   s.rate,
				Availability: availability,
				Timing:       s.timing,
			},
			CreatedAt: seedUpdatedAt,
			UpdatedAt: seedUpdatedAt.Add(-time.Duration(i) * time.Minute),
		})
	}
	for i, s := range seedCareseekers {
		out = append(out, profile.Profile{
			UserID:              fmt.Sprintf("seed-careseeker-%02d", i+1),
			FullName:            s.name,
			Location:            s.location,
			Role:                profile.RoleCareseeker,
			OnboardingCompleted: true,
			Careseeker: &profile.CareseekerDetails{
				CareNeeds:    []string{s.careNeed},
				CareDetails:  s.timing,
				UrgencyLevel: "flexible",
			},
			CreatedAt: seedUpdatedAt,
			UpdatedAt: seedUpdatedAt.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

func weekMap(days []string) map[string]bool {
	out := make(map[string]bool, len(days))
	for _, d := range days {
		out[d] = true
	}
	return out
}
