package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, splitList([]string{"a@x.io, b@x.io"}))
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a", "b,c", " "}))
	assert.Nil(t, splitList(nil))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DIGEST_RECIPIENTS", "ops@example.com,sales@example.com")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"ops@example.com", "sales@example.com"}, cfg.Digest.Recipients)
	assert.Equal(t, 4, cfg.CRM.RecalcWorkers)
	assert.False(t, cfg.Email.Enabled())
}
