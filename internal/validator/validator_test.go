package validator

import "testing"

func TestIsSlug(t *testing.T) {
	valid := []string{
		"cardiology",
		"internal-medicine",
		"acls-2024",
		"a",
		"1",
	}
	for _, s := range valid {
		if !IsSlug(s) {
			t.Errorf("IsSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"Cardiology",
		"internal medicine",
		"-leading",
		"trailing-",
		"double--dash",
		"snake_case",
		"ünïcode",
	}
	for _, s := range invalid {
		if IsSlug(s) {
			t.Errorf("IsSlug(%q) = true, want false", s)
		}
	}
}
