package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitScraper_Defaults(t *testing.T) {
	t.Setenv("SCRAPER_TOKEN", "tok")
	var c Config
	c.Scraper.PostsLimit = 50
	initScraper(&c)

	assert.Equal(t, "tok", c.Scraper.Token)
	assert.Equal(t, "https://api.apify.com", c.Scraper.BaseURL)
	assert.Equal(t, 20, c.Scraper.PostsLimit)
	assert.Equal(t, 60, c.Scraper.WaitForFinishSeconds)
	assert.Equal(t, 2000, c.Scraper.PollIntervalMillis)
	assert.NotEmpty(t, c.Scraper.ProfileActorID)
	assert.NotEmpty(t, c.Scraper.PostsActorID)
}

func TestInitApp_PortResolution(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8088")
	t.Setenv("ALLOW_ORIGINS", "https://a.example, https://b.example,")
	var c Config
	initApp(&c)

	assert.Equal(t, 8088, c.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.App.AllowOrigins)

	t.Setenv("APP_PORT", "9000")
	initApp(&c)
	assert.Equal(t, 9000, c.App.Port)
}

func TestInitDatabase_EnvDoesNotOverrideFile(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_NAME", "env-db")
	var c Config
	c.Database.Psql.Host = "file-host"
	initDatabase(&c)

	assert.Equal(t, "file-host", c.Database.Psql.Host)
	assert.Equal(t, "env-db", c.Database.Psql.Name)
	assert.Equal(t, "5432", c.Database.Psql.Port)
	assert.Equal(t, "disable", c.Database.Psql.SSLMode)
}

func TestInitIdentity_TrimsURL(t *testing.T) {
	t.Setenv("IDENTITY_URL", "https://project.supabase.co/")
	var c Config
	initIdentity(&c)
	assert.Equal(t, "https://project.supabase.co", c.Identity.URL)
}

func TestLoadEnvFiles_KeepsProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CREATOR_OS_A=from-file\nCREATOR_OS_B=from-file\n"), 0o600))
	t.Setenv("CREATOR_OS_A", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("CREATOR_OS_B") })

	LoadEnvFiles(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from-process", os.Getenv("CREATOR_OS_A"))
	assert.Equal(t, "from-file", os.Getenv("CREATOR_OS_B"))
}

func TestGetConfig_UsesEnvSuffix(t *testing.T) {
	t.Setenv("ENV", "stage")
	assert.Equal(t, "config-stage", getConfig())
	t.Setenv("ENV", "")
	assert.Equal(t, "config", getConfig())
}
