package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		SQLiteDBPath:       "./test.db",
		JWTSecret:          "unit-test-secret-0123456789",
		TokenTTL:           24 * time.Hour,
		UploadDir:          "./uploads",
		MaxUploadBytes:     5 << 20,
		RateLimitPerMinute: 60,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errorString: "JWT_SECRET is required",
		},
		{
			name:        "short JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "tooshort" },
			wantErr:     true,
			errorString: "JWT_SECRET too short: must be at least 16 characters",
		},
		{
			name:        "token TTL too small",
			mutate:      func(c *Config) { c.TokenTTL = 30 * time.Second },
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name:        "token TTL too large",
			mutate:      func(c *Config) { c.TokenTTL = 31 * 24 * time.Hour },
			wantErr:     true,
			errorString: "must be at most 720 hours",
		},
		{
			name:        "missing upload dir",
			mutate:      func(c *Config) { c.UploadDir = "" },
			wantErr:     true,
			errorString: "upload directory cannot be empty",
		},
		{
			name:        "max upload too small",
			mutate:      func(c *Config) { c.MaxUploadBytes = 512 },
			wantErr:     true,
			errorString: "must be at least 1KB",
		},
		{
			name:        "rate limit too small",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty config")
	}

	for _, want := range []string{
		"invalid port",
		"SQLite database path cannot be empty",
		"JWT_SECRET is required",
		"upload directory cannot be empty",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	vars := []string{
		"PORT", "SQLITE_DB_PATH", "JWT_SECRET", "TOKEN_TTL",
		"UPLOAD_DIR", "MAX_UPLOAD_BYTES", "RATE_LIMIT_PER_MINUTE",
	}
	original := map[string]string{}
	for _, key := range vars {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range original {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.SQLiteDBPath != "./data/fintrack.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/fintrack.db", cfg.SQLiteDBPath)
		}
		if cfg.TokenTTL != 24*time.Hour {
			t.Errorf("Load() TokenTTL = %v, want 24h", cfg.TokenTTL)
		}
		if cfg.MaxUploadBytes != 5<<20 {
			t.Errorf("Load() MaxUploadBytes = %v, want %v", cfg.MaxUploadBytes, 5<<20)
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60", cfg.RateLimitPerMinute)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("JWT_SECRET", "another-secret-value-here")
		os.Setenv("TOKEN_TTL", "12h")
		os.Setenv("UPLOAD_DIR", "/tmp/uploads")
		os.Setenv("MAX_UPLOAD_BYTES", "1048576")
		os.Setenv("RATE_LIMIT_PER_MINUTE", "120")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.JWTSecret != "another-secret-value-here" {
			t.Errorf("Load() JWTSecret = %v", cfg.JWTSecret)
		}
		if cfg.TokenTTL != 12*time.Hour {
			t.Errorf("Load() TokenTTL = %v, want 12h", cfg.TokenTTL)
		}
		if cfg.UploadDir != "/tmp/uploads" {
			t.Errorf("Load() UploadDir = %v, want /tmp/uploads", cfg.UploadDir)
		}
		if cfg.MaxUploadBytes != 1048576 {
			t.Errorf("Load() MaxUploadBytes = %v, want 1048576", cfg.MaxUploadBytes)
		}
		if cfg.RateLimitPerMinute != 120 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 120", cfg.RateLimitPerMinute)
		}
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		os.Setenv("TOKEN_TTL", "not-a-duration")
		os.Setenv("RATE_LIMIT_PER_MINUTE", "many")
		defer os.Unsetenv("TOKEN_TTL")
		defer os.Unsetenv("RATE_LIMIT_PER_MINUTE")

		cfg := Load()
		if cfg.TokenTTL != 24*time.Hour {
			t.Errorf("Load() TokenTTL = %v, want default 24h", cfg.TokenTTL)
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want default 60", cfg.RateLimitPerMinute)
		}
	})
}
