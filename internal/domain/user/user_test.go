package user_test

import (
	"errors"
	"testing"

	"github.com/habitflow/userhub/internal/domain/user"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		inEmail   string
		wantErr   error
		wantName  string
		wantEmail string
	}{
		{
			name:      "trims and lower-cases",
			inName:    "  Ana ",
			inEmail:   " Ana@Test.Com ",
			wantName:  "Ana",
			wantEmail: "ana@test.com",
		},
		{
			name:    "empty name",
			inName:  "",
			inEmail: "a@b.c",
			wantErr: user.ErrMissingFields,
		},
		{
			name:    "whitespace only name",
			inName:  "   ",
			inEmail: "a@b.c",
			wantErr: user.ErrMissingFields,
		},
		{
			name:    "whitespace only email",
			inName:  "Ana",
			inEmail: "   ",
			wantErr: user.ErrMissingFields,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := user.New(tc.inName, tc.inEmail, "")

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got err %v, want %v", err, tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if u.Name != tc.wantName {
				t.Fatalf("name: got %q want %q", u.Name, tc.wantName)
			}

			if u.Email != tc.wantEmail {
				t.Fatalf("email: got %q want %q", u.Email, tc.wantEmail)
			}

			if u.ID == "" {
				t.Fatal("id should be assigned")
			}

			if u.CreatedAt.IsZero() {
				t.Fatal("createdAt should be assigned")
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	got := user.NormalizeEmail("  Ana@Test.COM ")

	if got != "ana@test.com" {
		t.Fatalf("got %q", got)
	}
}
