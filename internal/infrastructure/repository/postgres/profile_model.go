package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type profileTableModel struct {
	ID                  int64           `db:"id"`
	UserID              string          `db:"user_id"`
	Email               sql.NullString  `db:"email"`
	FullName            sql.NullString  `db:"full_name"`
	AvatarURL           sql.NullString  `db:"avatar_url"`
	Bio                 sql.NullString  `db:"bio"`
	Location            sql.NullString  `db:"location"`
	Role                sql.NullString  `db:"role"`
	OnboardingCompleted bool            `db:"onboarding_completed"`
	CareTypes           pq.StringArray  `db:"care_types"`
	Experience          sql.NullString  `db:"experience"`
	HourlyRate          sql.NullFloat64 `db:"hourly_rate"`
	Availability        []byte          `db:"availability"`
	Timing              sql.NullString  `db:"timing"`
	Certifications      pq.StringArray  `db:"certifications"`
	CareNeeds           pq.StringArray  `db:"care_needs"`
	CareDetails         sql.NullString  `db:"care_details"`
	Schedule            []byte          `db:"schedule"`
	CareHours           pq.StringArray  `db:"care_hours"`
	UrgencyLevel        sql.NullString  `db:"urgency_level"`
	BudgetMin           sql.NullFloat64 `db:"budget_min"`
	BudgetMax           sql.NullFloat64 `db:"budget_max"`
	ZipCode             sql.NullString  `db:"zip_code"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
	DeletedAt           *time.Time      `db:"deleted_at"`
}

// profileInsertModel carries jsonb columns as text; lib/pq would send []byte
// as bytea.
type profileInsertModel struct {
	UserID              string         `db:"user_id"`
	Email               *string        `db:"email"`
	FullName            *string        `db:"full_name"`
	AvatarURL           *string        `db:"avatar_url"`
	Bio                 *string        `db:"bio"`
	Location            *string        `db:"location"`
	Role                *string        `db:"role"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	CareTypes           pq.StringArray `db:"care_types"`
	Experience          *string        `db:"experience"`
	HourlyRate          *float64       `db:"hourly_rate"`
	Availability        *string        `db:"availability"`
	Timing              *string        `db:"timing"`
	Certifications      pq.StringArray `db:"certifications"`
	CareNeeds           pq.StringArray `db:"care_needs"`
	CareDetails         *string        `db:"care_details"`
	Schedule            *string        `db:"schedule"`
	CareHours           pq.StringArray `db:"care_hours"`
	UrgencyLevel        *string        `db:"urgency_level"`
	BudgetMin           *float64       `db:"budget_min"`
	BudgetMax           *float64       `db:"budget_max"`
	ZipCode             *string        `db:"zip_code"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}
