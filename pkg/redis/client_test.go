package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viannadoces/doceria-web/pkg/config"
)

func TestOptionsFromConfig_RequiresURLOrAddress(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)
}

func TestOptionsFromConfig_ParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://:pw@localhost:6380/2",
		PoolSize: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 7, opts.PoolSize)
}

func TestKeyBuildersAreNamespaced(t *testing.T) {
	c := &Client{}
	assert.Equal(t, "doceria:session:s1", c.SessionKey("s1"))
	assert.Equal(t, "doceria:contract_draft:s1", c.DraftKey("s1"))
	assert.Equal(t, "doceria:rate_limit:login", c.RateLimitKey("login"))
}
