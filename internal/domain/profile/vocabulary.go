package profile

import "strings"

// Option is a selectable value shown by the onboarding wizards.
type Option struct {
	ID    string
	Label string
}

var CareTypes = []Option{
	{ID: "elderly", Label: "Elderly Care"},
	{ID: "child", Label: "Child Care"},
	{ID: "special_needs", Label: "Special Needs Care"},
	{ID: "medical", Label: "Medical Care"},
	{ID: "companion", Label: "Companionship"},
	{ID: "other", Label: "Other"},
}

var ExperienceLevels = []Option{
	{ID: "0-1", Label: "Less than 1 year"},
	{ID: "1-3", Label: "1-3 years"},
	{ID: "3-5", Label: "3-5 years"},
	{ID: "5-10", Label: "5-10 years"},
	{ID: "10+", Label: "10+ years"},
}

var CareHours = []Option{
	{ID: "morning", Label: "Morning"},
	{ID: "afternoon", Label: "Afternoon"},
	{ID: "evening", Label: "Evening"},
	{ID: "night", Label: "Night"},
}

var UrgencyLevels = []Option{
	{ID: "immediate", Label: "Immediately"},
	{ID: "within_week", Label: "Within a week"},
	{ID: "within_month", Label: "Within a month"},
	{ID: "flexible", Label: "Flexible"},
}

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var Roles = []Option{
	{ID: string(RoleCaregiver), Label: "I want to provide care"},
	{ID: string(RoleCareseeker), Label: "I am looking for care"},
}

func HasOption(options []Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// NormalizeWeekMap lower-cases day keys and drops anything that is not a weekday.
// Missing days are filled with false so the stored map always has seven entries.
func NormalizeWeekMap(in map[string]bool) (map[string]bool, []string) {
	out := make(map[string]bool, len(Weekdays))
	for _, day := range Weekdays {
		out[day] = false
	}

	var unknown []string
	for day, on := range in {
		key := strings.ToLower(strings.TrimSpace(day))
		if _, ok := out[key]; !ok {
			unknown = append(unknown, day)
			continue
		}
		out[key] = on
	}
	return out, unknown
}
