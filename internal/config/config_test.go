package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WHATSAPP_ENABLED", "false")
	t.Setenv("SHEETS_ENABLED", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Salon.BusinessStartHour)
	assert.Equal(t, 22, cfg.Salon.BusinessEndHour)
	assert.Equal(t, 15, cfg.Salon.SlotMinutes)
	assert.Equal(t, 30.0, cfg.Salon.SlotHeight)
	assert.Equal(t, 30, cfg.Salon.BreakWindowMinutes)
	assert.InDelta(t, 0.18, cfg.Salon.GSTRate, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "Sales!A:K", cfg.Sheets.SalesRange)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "WHATSAPP_ENABLED=false\nSHEETS_ENABLED=false\nAPP_PORT=9999\nSLOT_HEIGHT=24\nBREAK_WINDOW_MINUTES=15\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	for _, key := range []string{"WHATSAPP_ENABLED", "SHEETS_ENABLED", "APP_PORT", "SLOT_HEIGHT", "BREAK_WINDOW_MINUTES"} {
		key := key
		prev, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 24.0, cfg.Salon.SlotHeight)
	assert.Equal(t, 15, cfg.Salon.BreakWindowMinutes)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			MongoDB:   MongoDBConfig{URI: "mongodb://localhost", DBName: "salonpos"},
			Redis:     RedisConfig{Addr: "localhost:6379", LockTTL: time.Second},
			Salon:     SalonConfig{Timezone: "UTC", BusinessStartHour: 8, BusinessEndHour: 22, SlotMinutes: 15, SlotHeight: 30, GSTRate: 0.18},
			Scheduler: SchedulerConfig{ReminderCron: "*/15 * * * *", SalesSyncCron: "30 22 * * *"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"whatsapp token", func(c *Config) { c.WhatsApp.Enabled = true }, "WHATSAPP_TOKEN must be provided"},
		{"sheets creds", func(c *Config) { c.Sheets.Enabled = true }, "GOOGLE_SHEETS_CREDENTIALS_PATH must be provided"},
		{"bad hours", func(c *Config) { c.Salon.BusinessEndHour = 7 }, "BUSINESS_START_HOUR"},
		{"bad slot", func(c *Config) { c.Salon.SlotMinutes = 7 }, "SLOT_MINUTES"},
		{"bad tz", func(c *Config) { c.Salon.Timezone = "Mars/Olympus" }, "TIMEZONE is invalid"},
		{"no mongo", func(c *Config) { c.MongoDB.URI = "" }, "MONGODB_URI must be provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
