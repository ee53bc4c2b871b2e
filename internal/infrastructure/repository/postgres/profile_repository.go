package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	qb "github.com/riskibarqy/carelink/internal/platform/querybuilder"
)

const profilesTable = "profiles"

const profileUpsertSuffix = `ON CONFLICT (user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name,
    avatar_url = EXCLUDED.avatar_url,
    bio = EXCLUDED.bio,
    location = EXCLUDED.location,
    role = EXCLUDED.role,
    onboarding_completed = EXCLUDED.onboarding_completed,
    care_types = EXCLUDED.care_types,
    experience = EXCLUDED.experience,
    hourly_rate = EXCLUDED.hourly_rate,
    availability = EXCLUDED.availability,
    timing = EXCLUDED.timing,
    certifications = EXCLUDED.certifications,
    care_needs = EXCLUDED.care_needs,
    care_details = EXCLUDED.care_details,
    schedule = EXCLUDED.schedule,
    care_hours = EXCLUDED.care_hours,
    urgency_level = EXCLUDED.urgency_level,
    budget_min = EXCLUDED.budget_min,
    budget_max = EXCLUDED.budget_max,
    zip_code = EXCLUDED.zip_code,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	query, args, err := qb.Select(qb.Columns(profileTableModel{})...).
		From(profilesTable).
		Where(
			qb.Eq("user_id", strings.TrimSpace(userID)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	item, err := profileFromRow(row)
	if err != nil {
		return profile.Profile{}, false, err
	}
	return item, true, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, item profile.Profile) error {
	insertModel, err := profileToInsertModel(item)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel(profilesTable, insertModel, profileUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("upsert profile user_id=%s: %w", insertModel.UserID, profile.ErrRoleRequired)
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) ListCompletedByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	query, args, err := qb.Select(qb.Columns(profileTableModel{})...).
		From(profilesTable).
		Where(
			qb.Eq("role", string(role)),
			qb.Eq("onboarding_completed", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("updated_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list profiles by role query: %w", err)
	}
	return r.list(ctx, query, args)
}

// ListInconsistent returns rows written before the role constraint was
// enforced.
func (r *ProfileRepository) ListInconsistent(ctx context.Context) ([]profile.Profile, error) {
	query, args, err := qb.Select(qb.Columns(profileTableModel{})...).
		From(profilesTable).
		Where(
			qb.Eq("onboarding_completed", true),
			qb.Expr("COALESCE(role, '') NOT IN ('caregiver', 'careseeker')"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list inconsistent profiles query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *ProfileRepository) list(ctx context.Context, query string, args []any) ([]profile.Profile, error) {
	var rows []profileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		item, err := profileFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func profileFromRow(row profileTableModel) (profile.Profile, error) {
	item := profile.Profile{
		UserID:              row.UserID,
		Email:               strings.TrimSpace(row.Email.String),
		FullName:            strings.TrimSpace(row.FullName.String),
		AvatarURL:           strings.TrimSpace(row.AvatarURL.String),
		Bio:                 row.Bio.String,
		Location:            strings.TrimSpace(row.Location.String),
		Role:                profile.ParseRole(row.Role.String),
		OnboardingCompleted: row.OnboardingCompleted,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	switch item.Role {
	case profile.RoleCaregiver:
		availability, err := decodeWeekMap(row.Availability)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("decode availability user_id=%s: %w", row.UserID, err)
		}
		item.Caregiver = &profile.CaregiverDetails{
			CareTypes:      []string(row.CareTypes),
			Experience:     row.Experience.String,
			HourlyRate:     row.HourlyRate.Float64,
			Availability:   availability,
			Timing:         row.Timing.String,
			Certifications: []string(row.Certifications),
		}
	case profile.RoleCareseeker:
		schedule, err := decodeWeekMap(row.Schedule)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("decode schedule user_id=%s: %w", row.UserID, err)
		}
		item.Careseeker = &profile.CareseekerDetails{
			CareNeeds:    []string(row.CareNeeds),
			CareDetails:  row.CareDetails.String,
			Schedule:     schedule,
			CareHours:    []string(row.CareHours),
			UrgencyLevel: row.UrgencyLevel.String,
			BudgetMin:    row.BudgetMin.Float64,
			BudgetMax:    row.BudgetMax.Float64,
			ZipCode:      row.ZipCode.String,
		}
	}
	return item, nil
}

func profileToInsertModel(item profile.Profile) (profileInsertModel, error) {
	model := profileInsertModel{
		UserID:              strings.TrimSpace(item.UserID),
		Email:               optionalString(item.Email),
		FullName:            optionalString(item.FullName),
		AvatarURL:           optionalString(item.AvatarURL),
		Bio:                 optionalString(item.Bio),
		Location:            optionalString(item.Location),
		Role:                optionalString(string(item.Role)),
		OnboardingCompleted: item.OnboardingCompleted,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
	}

	if details := item.Caregiver; details != nil {
		availability, err := encodeWeekMap(details.Availability)
		if err != nil {
			return profileInsertModel{}, fmt.Errorf("encode availability: %w", err)
		}
		model.CareTypes = pq.StringArray(details.CareTypes)
		model.Experience = optionalString(details.Experience)
		model.HourlyRate = optionalFloat(details.HourlyRate)
		model.Availability = availability
		model.Timing = optionalString(details.Timing)
		model.Certifications = pq.StringArray(details.Certifications)
	}
	if details := item.Careseeker; details != nil {
		schedule, err := encodeWeekMap(details.Schedule)
		if err != nil {
			return profileInsertModel{}, fmt.Errorf("encode schedule: %w", err)
		}
		model.CareNeeds = pq.StringArray(details.CareNeeds)
		model.CareDetails = optionalString(details.CareDetails)
		model.Schedule = schedule
		model.CareHours = pq.StringArray(details.CareHours)
		model.UrgencyLevel = optionalString(details.UrgencyLevel)
		model.BudgetMin = optionalFloat(details.BudgetMin)
		model.BudgetMax = optionalFloat(details.BudgetMax)
		model.ZipCode = optionalString(details.ZipCode)
	}
	return model, nil
}

func encodeWeekMap(days map[string]bool) (*string, error) {
	if len(days) == 0 {
		return nil, nil
	}
	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(days)
	if err != nil {
		return nil, err
	}
	value := string(raw)
	return &value, nil
}

func decodeWeekMap(raw []byte) (map[string]bool, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var days map[string]bool
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalFloat(value float64) *float64 {
	if value == 0 {
		return nil
	}
	return &value
}
