package querybuilder

import "testing"

func TestInsertModel(t *testing.T) {
	type row struct {
		UserID   string  `db:"user_id"`
		Role     *string `db:"role,omitempty"`
		internal string
		Skipped  string `db:"-"`
	}

	role := "careseeker"
	query, args, err := InsertModel("profiles", &row{UserID: "u1", Role: &role}, "ON CONFLICT (user_id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO profiles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_Rejects(t *testing.T) {
	type untagged struct{ Name string }

	if _, _, err := InsertModel("", struct {
		ID int `db:"id"`
	}{}, ""); err == nil {
		t.Fatalf("expected error without table")
	}
	if _, _, err := InsertModel("profiles", untagged{}, ""); err == nil {
		t.Fatalf("expected error for model without db tags")
	}
	var nilRow *untagged
	if _, _, err := InsertModel("profiles", nilRow, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestColumns(t *testing.T) {
	type row struct {
		ID       int64  `db:"id"`
		UserID   string `db:"user_id"`
		Ignored  string
		internal string `db:"hidden"`
	}

	got := Columns(row{})
	if len(got) != 2 || got[0] != "id" || got[1] != "user_id" {
		t.Fatalf("unexpected columns: %+v", got)
	}
	if Columns(42) != nil {
		t.Fatalf("expected nil columns for non-struct")
	}
}
