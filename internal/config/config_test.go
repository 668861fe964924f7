package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

const configContent = `
reports:
  - display_name: "Weekly BlueStars US Sponsored Products Campaign report"
    brand: BlueStars
    marketplace: US
    ad_product: SP
  - display_name: "Weekly Canamax CA Sponsored Display Campaign report"
    brand: Canamax
    marketplace: CA
    ad_product: SD

senders:
  - noreply@amazon.com
  - no-reply@amazon.com

catalogs:
  BlueStars: "https://docs.google.com/spreadsheets/bluestars/pubhtml"
  Canamax: "https://docs.google.com/spreadsheets/canamax/pubhtml"

ignore_skus:
  BlueStars:
    - "bo di"
    - "WR57X10032"
  Canamax:
    - "CSR-U2 Video Ads Phrase"

fx:
  cad_to_usd: 0.76

fetch:
  max_attempts: 4
  delay_seconds: 2

notify:
  region: "us-east-1"
  sender: "reports@example.com"
  recipients:
    - "team@example.com"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, configContent))
	require.NoError(t, err)

	require.Len(t, cfg.Reports, 2)
	assert.Equal(t, "Weekly BlueStars US Sponsored Products Campaign report", cfg.Reports[0].DisplayName)
	assert.Equal(t, report.BrandBlueStars, cfg.Reports[0].Identity.Brand)
	assert.Equal(t, report.MarketplaceUS, cfg.Reports[0].Identity.Marketplace)
	assert.Equal(t, report.AdSponsoredProducts, cfg.Reports[0].Identity.AdProduct)
	assert.Equal(t, report.AdSponsoredDisplay, cfg.Reports[1].Identity.AdProduct)

	assert.Equal(t, []string{"noreply@amazon.com", "no-reply@amazon.com"}, cfg.Senders)
	assert.Equal(t, 0.76, cfg.Fx.CADToUSD)
	assert.Equal(t, 4, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Delay())
	assert.Equal(t, "us-east-1", cfg.Notify.Region)
	assert.Contains(t, cfg.IgnoreSKUs[report.BrandBlueStars], "bo di")
}

func TestLoadDefaults(t *testing.T) {
	minimal := `
reports:
  - display_name: "Weekly BlueStars US Sponsored Products Campaign report"
    brand: BlueStars
    marketplace: US
    ad_product: SP
catalogs:
  BlueStars: "https://example.com/pubhtml"
`
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 0.76, cfg.Fx.CADToUSD)
	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Delay())
	assert.Equal(t, "us-west-2", cfg.Notify.Region)
}

func TestLoadRejectsUnknownIdentity(t *testing.T) {
	bad := `
reports:
  - display_name: "Weekly report"
    brand: Acme
    marketplace: US
    ad_product: SP
catalogs:
  Acme: "https://example.com/pubhtml"
`
	_, err := Load(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown brand")
}

func TestLoadRejectsMissingCatalog(t *testing.T) {
	bad := `
reports:
  - display_name: "Weekly report"
    brand: BlueStars
    marketplace: US
    ad_product: SP
`
	_, err := Load(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog source")
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("AWS_SES_ACCESS_KEY", "env-access")
	t.Setenv("AWS_SES_SECRET_KEY", "env-secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "env-refresh")

	cfg, err := LoadFromEnv(writeConfig(t, configContent))
	require.NoError(t, err)
	assert.Equal(t, "env-access", cfg.Notify.AccessKey)
	assert.Equal(t, "env-secret", cfg.Notify.SecretKey)
	assert.Equal(t, "env-refresh", cfg.Gmail.RefreshToken)
}
