package validate

import (
	"strings"
	"testing"
)

func TestEmailRules(t *testing.T) {
	invalid := []string{"plain", "no-at.example.com", "user@nodot", "@.", "a b@c d"}
	for _, email := range invalid {
		if got := SignIn(email, "pw")[FieldEmail]; got != "Email address is invalid" {
			t.Errorf("SignIn(%q) email error %q", email, got)
		}
		if got := SignUp(email, "Valid!pass", "Valid!pass")[FieldEmail]; got != "Email address is invalid" {
			t.Errorf("SignUp(%q) email error %q", email, got)
		}
	}
	if got := SignIn("", "pw")[FieldEmail]; got != "Email is required" {
		t.Fatalf("missing email: %q", got)
	}
	if errs := SignIn("a@b.co", "pw"); !errs.Valid() {
		t.Fatalf("expected valid form, got %v", errs)
	}
}

func TestSignInPasswordRequired(t *testing.T) {
	errs := SignIn("a@b.co", "")
	if errs[FieldPassword] != "Password is required" || errs.Valid() {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestSignUpPassword(t *testing.T) {
	cases := []struct {
		password string
		want     string
	}{
		{"", "Password is required"},
		{"a!", "Password must be at least 8 characters"},
		{"!@#$%^&", "Password must be at least 8 characters"},
		{"abcdefg", "Password must be at least 8 characters"},
		{strings.Repeat("a", 20) + "!", "Password must be no more than 20 characters"},
		{"abcdefgh", "Password must contain at least one special character (!@#$%^&*)"},
		{"abcdefg!", ""},
		{strings.Repeat("a", 19) + "*", ""},
	}
	for _, tc := range cases {
		errs := SignUp("a@b.co", tc.password, tc.password)
		if got := errs[FieldPassword]; got != tc.want {
			t.Errorf("SignUp password %q: got %q, want %q", tc.password, got, tc.want)
		}
	}
}

func TestSignUpConfirmAlwaysChecked(t *testing.T) {
	errs := SignUp("a@b.co", "abcdefg!", "abcdefg?")
	if errs[FieldConfirmPassword] != "Passwords do not match" {
		t.Fatalf("expected mismatch for valid password, got %v", errs)
	}
	if _, ok := errs[FieldPassword]; ok {
		t.Fatal("valid password must not report an error")
	}

	errs = SignUp("a@b.co", "short", "other")
	if errs[FieldConfirmPassword] == "" || errs[FieldPassword] == "" {
		t.Fatalf("expected both password and mismatch errors, got %v", errs)
	}
}

func TestTaskRules(t *testing.T) {
	if got := Task("   ", "")[FieldTitle]; got != "Title is required" {
		t.Fatalf("blank title: %q", got)
	}
	if got := Task(strings.Repeat("x", 201), "")[FieldTitle]; got != "Title must be 200 characters or less" {
		t.Fatalf("long title: %q", got)
	}
	if got := Task("ok", strings.Repeat("d", 1001))[FieldDescription]; got != "Description must be 1000 characters or less" {
		t.Fatalf("long description: %q", got)
	}
	if errs := Task(strings.Repeat("é", 200), strings.Repeat("d", 1000)); !errs.Valid() {
		t.Fatalf("limits are inclusive and counted in runes, got %v", errs)
	}
}

func TestErrorsAreFreshPerRun(t *testing.T) {
	first := Task("", "")
	second := Task("ok", "")
	if first.Valid() || !second.Valid() {
		t.Fatal("each run must produce an independent result")
	}
}
