package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("ENV", "")
	t.Setenv("TRUST_PROXY", "")

	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_TrustProxy(t *testing.T) {
	t.Setenv("TRUST_PROXY", "true")
	assert.True(t, Load().TrustProxy)

	t.Setenv("TRUST_PROXY", "yes please")
	assert.False(t, Load().TrustProxy)
}

func TestLoad_Aliases(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/petverse")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "mongodb://db:27017/petverse", cfg.MongoURI)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mongo ok", Config{StoreDriver: DriverMongo, MongoURI: "mongodb://x", SecretKey: "k"}, false},
		{"mongo without uri", Config{StoreDriver: DriverMongo, SecretKey: "k"}, true},
		{"missing secret", Config{StoreDriver: DriverMemory}, true},
		{"memory ok", Config{StoreDriver: DriverMemory, SecretKey: "k"}, false},
		{"postgres without uri", Config{StoreDriver: DriverPostgres, SecretKey: "k"}, true},
		{"unknown driver", Config{StoreDriver: "sqlite", SecretKey: "k"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	err := (&Config{StoreDriver: DriverMongo}).Validate()
	require.True(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "SECRET_KEY")
	assert.Contains(t, err.Error(), "MONGO_URI")
}
