package config

import "testing"

func TestEnvironmentHelpers(t *testing.T) {
	dev := &Config{Env: "development"}
	if !dev.IsDevelopment() || dev.IsProduction() {
		t.Errorf("Env=development: IsDevelopment=%v IsProduction=%v", dev.IsDevelopment(), dev.IsProduction())
	}

	prod := &Config{Env: "production"}
	if prod.IsDevelopment() || !prod.IsProduction() {
		t.Errorf("Env=production: IsDevelopment=%v IsProduction=%v", prod.IsDevelopment(), prod.IsProduction())
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "not-the-default")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Error("expected production config")
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.JWTSecret == DefaultJWTSecret {
		t.Error("JWT_SECRET from environment was ignored")
	}
}
