package clickhouse

import (
	"testing"

	"github.com/flexprice/rawusage/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	opts := Options(config.ClickHouseConfig{
		Address:  "localhost:9000",
		Username: "default",
		Password: "secret",
		Database: "flexprice",
	})

	assert.Equal(t, []string{"localhost:9000"}, opts.Addr)
	assert.Equal(t, "flexprice", opts.Auth.Database)
	assert.Equal(t, "default", opts.Auth.Username)
	assert.Nil(t, opts.TLS)

	secure := Options(config.ClickHouseConfig{Address: "ch:9440", Database: "flexprice", TLS: true})
	assert.NotNil(t, secure.TLS)
}

func TestClose_WithoutConnection(t *testing.T) {
	assert.NoError(t, (&ClickHouseStore{}).Close())
}
