package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "FREE_SHIPPING_THRESHOLD", "SHIPPING_FEE", "TAX_RATE", "DISCOUNT_BADGE_MODE", "UPLOAD_CONCURRENCY"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if !cfg.Pricing.FreeShippingThreshold.Equal(decimal.NewFromInt(999)) {
		t.Fatalf("unexpected threshold %s", cfg.Pricing.FreeShippingThreshold)
	}
	if !cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.18")) {
		t.Fatalf("unexpected tax rate %s", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.BadgeMode != pricing.BadgeRetail {
		t.Fatalf("unexpected badge mode %q", cfg.Pricing.BadgeMode)
	}
	if cfg.UploadConcurrency != 4 {
		t.Fatalf("unexpected upload concurrency %d", cfg.UploadConcurrency)
	}
}

func TestFromEnv_PricingOverrides(t *testing.T) {
	t.Setenv("FREE_SHIPPING_THRESHOLD", "1499.50")
	t.Setenv("SHIPPING_FEE", "75")
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("DISCOUNT_BADGE_MODE", "role-aware")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg := FromEnv()
	if !cfg.Pricing.FreeShippingThreshold.Equal(decimal.RequireFromString("1499.50")) {
		t.Fatalf("unexpected threshold %s", cfg.Pricing.FreeShippingThreshold)
	}
	if !cfg.Pricing.ShippingFee.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected fee %s", cfg.Pricing.ShippingFee)
	}
	if !cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("unexpected tax rate %s", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.BadgeMode != pricing.BadgeRoleAware {
		t.Fatalf("unexpected badge mode %q", cfg.Pricing.BadgeMode)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
}

func TestFromEnv_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("TAX_RATE", "eighteen")
	t.Setenv("SHIPPING_FEE", "-5")
	t.Setenv("UPLOAD_CONCURRENCY", "0")

	cfg := FromEnv()
	if !cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.18")) {
		t.Fatalf("expected default tax rate, got %s", cfg.Pricing.TaxRate)
	}
	if !cfg.Pricing.ShippingFee.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected default fee, got %s", cfg.Pricing.ShippingFee)
	}
	if cfg.UploadConcurrency != 4 {
		t.Fatalf("expected default concurrency, got %d", cfg.UploadConcurrency)
	}
}

func TestLoad_ReadsDotenvFile(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "")
	os.Unsetenv("CORS_ORIGINS")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CORS_ORIGINS=https://shop.example.com, https://admin.example.com\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CORS_ORIGINS") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}
