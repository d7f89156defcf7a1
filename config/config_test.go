package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.False(t, cfg.IRC.Enable)
	assert.False(t, cfg.DNS.Enable)
	assert.Equal(t, DefaultIRCServer, cfg.IRC.Server)
	assert.Equal(t, 5*time.Second, cfg.IRC.FastInterval.Duration())
	assert.Equal(t, 5*time.Minute, cfg.IRC.SlowInterval.Duration())
	assert.Equal(t, DefaultDNSPort, cfg.DNS.Port)
	require.NoError(t, cfg.Validate())
}

func TestIRCConfig_Validate(t *testing.T) {
	valid := func() IRCConfig {
		c := DefaultIRCConfig()
		c.Enable = true
		c.Channel = "#bitcoin00"
		c.LocalHost = "127.0.0.1"
		c.LocalPort = 8334
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*IRCConfig)
	}{
		{"no channel", func(c *IRCConfig) { c.Channel = "" }},
		{"no local host", func(c *IRCConfig) { c.LocalHost = "" }},
		{"bad server", func(c *IRCConfig) { c.Server = "irc.example.org" }},
		{"port overflow", func(c *IRCConfig) { c.LocalPort = 70000 }},
		{"zero fast interval", func(c *IRCConfig) { c.FastInterval = 0 }},
		{"negative cycle timeout", func(c *IRCConfig) { c.CycleTimeout = -1 }},
		{"zero send rate", func(c *IRCConfig) { c.SendRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	// 未启用时不要求频道
	disabled := DefaultIRCConfig()
	assert.NoError(t, disabled.Validate())
}

func TestDNSConfig_Validate(t *testing.T) {
	c := DefaultDNSConfig()
	c.Enable = true
	assert.Error(t, c.Validate(), "enabled without hostnames")

	c.Hostnames = []string{"seed.example.org"}
	assert.NoError(t, c.Validate())

	c.Port = -1
	assert.Error(t, c.Validate())
}

func TestLogConfig_Validate(t *testing.T) {
	assert.NoError(t, LogConfig{Level: "DEBUG", Format: "json"}.Validate())
	assert.Error(t, LogConfig{Level: "verbose"}.Validate())
	assert.Error(t, LogConfig{Format: "xml"}.Validate())
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"irc": {"enable": true, "channel": "#bitcoin00", "local_host": "10.0.0.1", "local_port": 8333, "slow_interval": "10m"},
		"dns": {"hostnames": ["a.example.org", "b.example.org"], "refresh_interval": "1h"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.True(t, cfg.IRC.Enable)
	assert.Equal(t, "#bitcoin00", cfg.IRC.Channel)
	assert.Equal(t, 10*time.Minute, cfg.IRC.SlowInterval.Duration())
	// 未给出的字段保留默认值
	assert.Equal(t, 5*time.Second, cfg.IRC.FastInterval.Duration())
	assert.Equal(t, DefaultIRCServer, cfg.IRC.Server)
	assert.Equal(t, []string{"a.example.org", "b.example.org"}, cfg.DNS.Hostnames)
	assert.Equal(t, time.Hour, cfg.DNS.RefreshInterval.Duration())
	require.NoError(t, cfg.Validate())

	_, err = FromJSON([]byte(`{"irc": {"fast_interval": "soon"}}`))
	assert.Error(t, err)
}

func TestToJSON_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.DNS.Hostnames = []string{"seed.example.org"}

	data, err := ToJSON(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fast_interval": "5s"`)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestCloneConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.DNS.Hostnames = []string{"a.example.org"}

	clone := CloneConfig(cfg)
	clone.DNS.Hostnames[0] = "b.example.org"
	clone.IRC.Channel = "#other"

	assert.Equal(t, "a.example.org", cfg.DNS.Hostnames[0])
	assert.Empty(t, cfg.IRC.Channel)
	assert.Nil(t, CloneConfig(nil))
}

func TestApplyEnvFunc(t *testing.T) {
	env := map[string]string{
		EnvPrefix + EnvIRCEnable:   "yes",
		EnvPrefix + EnvIRCChannel:  "#bitcoin01",
		EnvPrefix + EnvLocalHost:   "203.0.113.7",
		EnvPrefix + EnvLocalPort:   "18333",
		EnvPrefix + EnvDNSSeeds:    " a.example.org, ,b.example.org ",
		EnvPrefix + EnvDNSPort:     "not-a-number",
		EnvPrefix + EnvDNSRefresh:  "30m",
		EnvPrefix + EnvLogLevel:    "debug",
		EnvPrefix + EnvMetricsAddr: "127.0.0.1:9100",
	}

	cfg := NewConfig()
	ApplyEnvFunc(cfg, func(k string) string { return env[k] })

	assert.True(t, cfg.IRC.Enable)
	assert.Equal(t, "#bitcoin01", cfg.IRC.Channel)
	assert.Equal(t, "203.0.113.7", cfg.IRC.LocalHost)
	assert.Equal(t, 18333, cfg.IRC.LocalPort)
	assert.Equal(t, []string{"a.example.org", "b.example.org"}, cfg.DNS.Hostnames)
	assert.Equal(t, DefaultDNSPort, cfg.DNS.Port, "unparsable value is ignored")
	assert.Equal(t, 30*time.Minute, cfg.DNS.RefreshInterval.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.ListenAddr)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`5000000000`), &d))
	assert.Equal(t, 5*time.Second, d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`"later"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(out))
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "YES", " on "} {
		assert.True(t, ParseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "maybe"} {
		assert.False(t, ParseBool(s), s)
	}
}
