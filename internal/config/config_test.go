package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"LOG_LEVEL", "APP_PORT", "STORAGE_BACKEND", "STORAGE_KEY", "STORAGE_DIR", "SQLITE_PATH",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "MONGODB_URI", "MONGODB_DB_NAME", "MONGODB_ARCHIVE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN", "WHATSAPP_BASE_URL",
	"WHATSAPP_API_VERSION", "WHATSAPP_MANAGER_ID", "WHATSAPP_ALLOWED_SENDERS", "GOOGLE_SHEETS_CREDENTIALS_PATH",
	"GOOGLE_SHEET_DATABASE_ID", "REPORT_CRON_SCHEDULE", "TIMEZONE",
}

// clearEnv unsets every variable Load reads. godotenv never overrides a variable
// that exists, even when empty. t.Setenv restores the originals afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "GOAT_FARM_DATA_v2", cfg.Storage.Key)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Restricted())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "STORAGE_BACKEND=Redis\nREDIS_ADDRESS=cache:6379\nREDIS_DB=2\nAPP_PORT=9090\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "two")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "REDIS_DB")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Storage:   StorageConfig{Backend: BackendMemory, Key: "k"},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "etcd" }, wantErr: "unsupported STORAGE_BACKEND"},
		{name: "file without dir", mutate: func(c *Config) { c.Storage.Backend = BackendFile }, wantErr: "STORAGE_DIR"},
		{name: "empty key", mutate: func(c *Config) { c.Storage.Key = "" }, wantErr: "STORAGE_KEY"},
		{name: "mongodb without db", mutate: func(c *Config) {
			c.Storage.Backend = BackendMongoDB
			c.MongoDB.URI = "mongodb://x"
		}, wantErr: "MONGODB"},
		{name: "archive without uri", mutate: func(c *Config) {
			c.MongoDB.Archive = true
			c.MongoDB.DBName = "goatfarm"
		}, wantErr: "MONGODB"},
		{name: "whatsapp partial", mutate: func(c *Config) { c.WhatsApp.AccessToken = "tok" }, wantErr: "WHATSAPP_PHONE_NUMBER_ID"},
		{name: "sheets without credentials", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "id" }, wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{name: "no schedule", mutate: func(c *Config) { c.Reporting.CronSchedule = "" }, wantErr: "REPORT_CRON_SCHEDULE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestLoadAllowedSenders(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHATSAPP_ALLOWED_SENDERS", " 224600000001, ,+224600000002")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{"224600000001", "+224600000002"}, cfg.WhatsApp.AllowedSenders)
}

func TestSenderAllowed(t *testing.T) {
	open := WhatsAppConfig{}
	assert.True(t, open.SenderAllowed("224600000009"))

	restricted := WhatsAppConfig{ManagerID: "+224600000001", AllowedSenders: []string{"224600000002"}}
	tests := []struct {
		from string
		want bool
	}{
		{from: "224600000001", want: true},
		{from: "+224600000002", want: true},
		{from: "224600000009", want: false},
		{from: "", want: false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, restricted.SenderAllowed(tt.from), "sender %q", tt.from)
	}
}
