package identity

import (
	"fmt"
	"testing"
	"time"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"maria@example.com", true},
		{"joao.silva@clinic.com.br", true},
		{"a@b.co", true},
		{"", false},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"trailing@example.com ", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidSex(t *testing.T) {
	tests := []struct {
		sex  string
		want bool
	}{
		{"M", true},
		{"F", true},
		{"m", false},
		{"f", false},
		{"X", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidSex(tt.sex); got != tt.want {
			t.Errorf("IsValidSex(%q) = %v, want %v", tt.sex, got, tt.want)
		}
	}
}

// birthDateForAge builds a date whose year-only age is exactly the given
// value, matching the coarse age policy.
func birthDateForAge(age int) string {
	return fmt.Sprintf("%04d-06-15", time.Now().Year()-age)
}

func TestIsValidBirthDate_AgeBounds(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want bool
	}{
		{"age 0 rejected", 0, false},
		{"age 1 accepted", 1, true},
		{"age 30 accepted", 30, true},
		{"age 120 accepted", 120, true},
		{"age 121 rejected", 121, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := birthDateForAge(tt.age)
			if got := IsValidBirthDate(date); got != tt.want {
				t.Errorf("IsValidBirthDate(%q) = %v, want %v", date, got, tt.want)
			}
		})
	}
}

func TestIsValidBirthDate_YearOnlyPolicy(t *testing.T) {
	// A birthday later this year still counts as a full year of age:
	// the policy subtracts years and never adjusts for month or day.
	date := fmt.Sprintf("%04d-12-31", time.Now().Year()-1)
	if !IsValidBirthDate(date) {
		t.Errorf("IsValidBirthDate(%q) = false, want true under year-only policy", date)
	}
}

func TestIsValidBirthDate_Malformed(t *testing.T) {
	for _, date := range []string{"", "not-a-date", "1990-13-01", "1990-02-30", "20-05-1990"} {
		if IsValidBirthDate(date) {
			t.Errorf("IsValidBirthDate(%q) = true, want false", date)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdef1!", true},
		{"Senha123@", true},
		{"X9&aaaaa", true},
		{"abcdefgh", false},  // no uppercase, digit, or symbol
		{"ABCDEFG1", false},  // no symbol
		{"Abcdefg!", false},  // no digit
		{"abcdef1!", false},  // no uppercase
		{"Ab1!", false},      // too short
		{"Abcdef1#", false},  // # not in the allowed symbol set
		{"Abcdef1! ", false}, // space outside allowed charset
		{"", false},
	}

	for _, tt := range tests {
		if got := IsStrongPassword(tt.password); got != tt.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
