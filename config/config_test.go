package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("POST_CREATE_REQUIRES_TOKEN", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.PostCreateRequiresToken)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "postgres", cfg.StoreDriver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "0")
	t.Setenv("POST_CREATE_REQUIRES_TOKEN", "true")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_USER", "blog")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "posts")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.True(t, cfg.PostCreateRequiresToken)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, "postgres://blog:pw@db:6543/posts?sslmode=require", cfg.PostgresDSN())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, "postgres", cfg.StoreDriver)
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test, ,http://b.test ",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}
