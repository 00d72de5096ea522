package config

import (
	"slices"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "TOLERANCE", "JWT_SECRET", "PRODUCTION", "TIMEZONE", "CLIENT_ORIGIN"} {
		t.Setenv(k, "")
	}
	c, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr() != ":5175" || c.DBDriver != "sqlite3" {
		t.Errorf("addr=%s driver=%s", c.Addr(), c.DBDriver)
	}
	if c.Rules.Tolerance != 5 || c.Rules.HintRange != 20 || c.Rules.MaxHints != 2 {
		t.Errorf("rules = %+v", c.Rules)
	}
	if c.JWTSecret != devJWTSecret {
		t.Errorf("dev secret not applied: %q", c.JWTSecret)
	}
	if c.Location != time.UTC {
		t.Errorf("location = %v", c.Location)
	}
	if !slices.Equal(c.ClientOrigin, []string{"http://localhost:5173"}) {
		t.Errorf("origins = %v", c.ClientOrigin)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("TOLERANCE", "10")
	t.Setenv("MAX_HINTS", "oops")
	t.Setenv("PRACTICE_TTL", "45m")
	t.Setenv("SUGGEST_TIMEOUT", "nonsense")
	t.Setenv("CLIENT_ORIGIN", "https://a.example, https://b.example ,")
	t.Setenv("TIMEZONE", "Europe/London")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	c, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr() != ":9000" || c.DBDriver != "memory" {
		t.Errorf("addr=%s driver=%s", c.Addr(), c.DBDriver)
	}
	if c.Rules.Tolerance != 10 || c.Rules.MaxHints != 2 {
		t.Errorf("rules = %+v", c.Rules)
	}
	if c.PracticeTTL != 45*time.Minute || c.SuggestTimeout != 15*time.Second {
		t.Errorf("ttl=%v timeout=%v", c.PracticeTTL, c.SuggestTimeout)
	}
	if !slices.Equal(c.ClientOrigin, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("origins = %v", c.ClientOrigin)
	}
	if c.Location.String() != "Europe/London" {
		t.Errorf("location = %v", c.Location)
	}
	if !c.AdminEnabled() {
		t.Error("admin should be enabled")
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"prod without secret", map[string]string{"PRODUCTION": "true", "JWT_SECRET": ""}},
		{"negative tolerance", map[string]string{"TOLERANCE": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
