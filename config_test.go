package tokengate

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "test config valid",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "missing secret",
			mutate: func(c *Config) {
				c.JWT.Secret = nil
			},
			wantValid: false,
		},
		{
			name: "short secret",
			mutate: func(c *Config) {
				c.JWT.Secret = []byte("0123456789012345678901234567890")
			},
			wantValid: false,
		},
		{
			name: "exactly 32 byte secret",
			mutate: func(c *Config) {
				c.JWT.Secret = []byte("01234567890123456789012345678901")
			},
			wantValid: true,
		},
		{
			name: "blank issuer",
			mutate: func(c *Config) {
				c.JWT.Issuer = "  "
			},
			wantValid: false,
		},
		{
			name: "argon2id valid",
			mutate: func(c *Config) {
				c.Password.Algorithm = PasswordArgon2id
			},
			wantValid: true,
		},
		{
			name: "argon2id weak memory",
			mutate: func(c *Config) {
				c.Password.Algorithm = PasswordArgon2id
				c.Password.Memory = 1024
			},
			wantValid: false,
		},
		{
			name: "unknown algorithm",
			mutate: func(c *Config) {
				c.Password.Algorithm = "md5"
			},
			wantValid: false,
		},
		{
			name: "bcrypt cost too high",
			mutate: func(c *Config) {
				c.Password.BcryptCost = 40
			},
			wantValid: false,
		},
		{
			name: "audit enabled without buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "ip throttle without login throttle",
			mutate: func(c *Config) {
				c.Security.EnableIPThrottle = true
			},
			wantValid: false,
		},
		{
			name: "throttle without cooldown",
			mutate: func(c *Config) {
				c.Security.EnableLoginThrottle = true
				c.Security.LoginCooldownDuration = 0
			},
			wantValid: false,
		},
		{
			name: "production requires throttle",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
			},
			wantValid: false,
		},
		{
			name: "production rejects weak bcrypt",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Security.EnableLoginThrottle = true
			},
			wantValid: false,
		},
		{
			name: "production valid",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Security.EnableLoginThrottle = true
				c.Password.BcryptCost = 10
			},
			wantValid: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected invalid config, got nil")
			}
		})
	}
}

func TestDefaultConfigRequiresSecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected default config without secret to fail validation")
	}
}
