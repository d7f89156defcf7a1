package main

import (
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerseed/config"
	ircdiscovery "github.com/dep2p/go-peerseed/internal/discovery/irc"
	"github.com/dep2p/go-peerseed/pkg/types"
)

func parseRunFlags(t *testing.T, args ...string) (*flag.FlagSet, *runFlags) {
	t.Helper()

	f := &runFlags{}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "")
	fs.StringVar(&f.server, "server", config.DefaultIRCServer, "")
	fs.StringVar(&f.channel, "channel", "", "")
	fs.StringVar(&f.channelPrefix, "channel-prefix", "", "")
	fs.IntVar(&f.channelCount, "channel-count", 2, "")
	fs.StringVar(&f.host, "host", "", "")
	fs.IntVar(&f.port, "port", 0, "")
	fs.StringVar(&f.dnsSeeds, "dns", "", "")
	fs.IntVar(&f.dnsPort, "dns-port", config.DefaultDNSPort, "")
	fs.StringVar(&f.resolver, "resolver", "", "")
	fs.DurationVar(&f.refresh, "refresh", 0, "")
	fs.StringVar(&f.metricsAddr, "metrics", "", "")
	fs.StringVar(&f.logLevel, "log-level", "info", "")
	fs.StringVar(&f.logFormat, "log-format", "text", "")
	fs.StringVar(&f.logFile, "log", "", "")
	require.NoError(t, fs.Parse(args))
	return fs, f
}

func TestBuildConfig_Flags(t *testing.T) {
	fs, f := parseRunFlags(t,
		"-channel", "#seeds05",
		"-host", "203.0.113.7",
		"-port", "8333",
		"-dns", "seed-a.example.org, seed-b.example.org",
		"-refresh", "10m",
		"-metrics", "127.0.0.1:9100",
	)

	cfg, err := buildConfig(fs, f)
	require.NoError(t, err)

	assert.True(t, cfg.IRC.Enable)
	assert.Equal(t, "#seeds05", cfg.IRC.Channel)
	assert.Equal(t, "203.0.113.7", cfg.IRC.LocalHost)
	assert.Equal(t, 8333, cfg.IRC.LocalPort)
	assert.True(t, cfg.DNS.Enable)
	assert.Equal(t, []string{"seed-a.example.org", "seed-b.example.org"}, cfg.DNS.Hostnames)
	assert.Equal(t, config.Duration(10*time.Minute), cfg.DNS.RefreshInterval)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.ListenAddr)
}

func TestBuildConfig_DefaultSeeds(t *testing.T) {
	fs, f := parseRunFlags(t, "-dns", "default")

	cfg, err := buildConfig(fs, f)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDNSSeeds, cfg.DNS.Hostnames)
	assert.False(t, cfg.IRC.Enable)
}

func TestBuildConfig_ChannelPrefix(t *testing.T) {
	fs, f := parseRunFlags(t,
		"-channel-prefix", "#namecoin",
		"-host", "127.0.0.1",
		"-port", "8334",
	)

	cfg, err := buildConfig(fs, f)
	require.NoError(t, err)
	assert.True(t, cfg.IRC.Enable)
	assert.Contains(t, []string{"#namecoin00", "#namecoin01"}, cfg.IRC.Channel)
}

func TestBuildConfig_Invalid(t *testing.T) {
	fs, f := parseRunFlags(t, "-channel", "#seeds", "-host", "203.0.113.7", "-port", "70000")

	_, err := buildConfig(fs, f)
	assert.Error(t, err)
}

func TestRandomChannel(t *testing.T) {
	for i := 0; i < 50; i++ {
		ch := randomChannel("bitcoin", 100)
		require.True(t, strings.HasPrefix(ch, "#bitcoin"), ch)
		assert.Len(t, ch, len("#bitcoin")+2)
	}
	assert.Equal(t, "#solo00", randomChannel("#solo", 0))
}

func TestRun_Subcommands(t *testing.T) {
	assert.NoError(t, run([]string{"encode", "127.0.0.1", "8334"}))
	assert.Error(t, run([]string{"encode", "127.0.0.1"}))
	assert.Error(t, run([]string{"encode", "::1", "8334"}))

	assert.NoError(t, run([]string{"decode", "u88qSoM5z6w9QqB"}))
	assert.Error(t, run([]string{"decode", "ukA3B33GVuqT"}))

	assert.Error(t, run([]string{"query", "bad..domain"}))
	assert.Error(t, run([]string{"query", "seed.example.org", "70000"}))

	assert.NoError(t, run([]string{"channel", "#seeds", "3"}))
	assert.Error(t, run([]string{"channel", "#seeds", "zero"}))

	assert.NoError(t, run([]string{"version"}))
	assert.Error(t, run([]string{"bogus"}))
}

func TestFormatDecoded(t *testing.T) {
	addr, ok := ircdiscovery.DecodeNickname("u88qSoM5z6w9QqB")
	require.True(t, ok)
	assert.Equal(t, "u88qSoM5z6w9QqB\t127.0.0.1:8334\tloopback", formatDecoded("u88qSoM5z6w9QqB", addr))

	cases := map[string]string{
		"0.0.0.0":     "unspecified",
		"10.1.2.3":    "private",
		"192.168.0.9": "private",
		"169.254.1.1": "link-local",
		"224.0.0.1":   "multicast",
		"1.1.1.1":     "public",
	}
	for host, want := range cases {
		a, err := types.ParsePeerAddress(host, 8333)
		require.NoError(t, err, host)
		assert.Equal(t, want, addrScope(a.IP()), host)
	}
}
