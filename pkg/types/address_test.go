package types

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, host string, port int) PeerAddress {
	t.Helper()
	a, err := ParsePeerAddress(host, port)
	require.NoError(t, err)
	return a
}

func TestParsePeerAddress(t *testing.T) {
	a := mustAddr(t, "127.0.0.1", 8334)
	assert.Equal(t, [4]byte{127, 0, 0, 1}, a.Octets())
	assert.Equal(t, uint16(8334), a.Port())
	assert.Equal(t, "127.0.0.1", a.Host())
	assert.Equal(t, "127.0.0.1:8334", a.String())
	assert.True(t, a.IP().Equal(net.IPv4(127, 0, 0, 1)))
	assert.NotNil(t, a.IP().To4())
}

func TestParsePeerAddress_Invalid(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want error
	}{
		{"three groups", "1.2.3", 1, ErrInvalidHost},
		{"five groups", "1.2.3.4.5", 1, ErrInvalidHost},
		{"empty group", "1..3.4", 1, ErrInvalidHost},
		{"octet overflow", "256.0.0.1", 1, ErrInvalidHost},
		{"negative octet", "-1.0.0.1", 1, ErrInvalidHost},
		{"signed octet", "+1.0.0.1", 1, ErrInvalidHost},
		{"hostname", "seed.example.org", 1, ErrInvalidHost},
		{"ipv6", "::1", 1, ErrInvalidHost},
		{"empty", "", 1, ErrInvalidHost},
		{"port overflow", "1.2.3.4", 65536, ErrInvalidPort},
		{"negative port", "1.2.3.4", -1, ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePeerAddress(tt.host, tt.port)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPeerAddress_Compare(t *testing.T) {
	// 主机按字符串比较，而非数值
	assert.Negative(t, mustAddr(t, "10.0.0.1", 1).Compare(mustAddr(t, "9.0.0.1", 1)))
	assert.Negative(t, mustAddr(t, "1.1.1.1", 1).Compare(mustAddr(t, "1.1.1.1", 2)))
	assert.Positive(t, mustAddr(t, "1.1.1.1", 10).Compare(mustAddr(t, "1.1.1.1", 9)))
	assert.Zero(t, mustAddr(t, "1.1.1.1", 1).Compare(mustAddr(t, "1.1.1.1", 1)))
}

func TestAddressList_Sort(t *testing.T) {
	list := AddressList{
		mustAddr(t, "2.2.2.2", 2),
		mustAddr(t, "1.1.1.1", 1),
		mustAddr(t, "10.0.0.1", 5),
		mustAddr(t, "1.1.1.1", 1),
	}
	list.Sort()

	assert.Equal(t, []string{"1.1.1.1:1", "1.1.1.1:1", "10.0.0.1:5", "2.2.2.2:2"}, list.Strings())
}

func TestAddressList_Equal(t *testing.T) {
	a := AddressList{mustAddr(t, "1.1.1.1", 1), mustAddr(t, "2.2.2.2", 2)}
	b := AddressList{mustAddr(t, "1.1.1.1", 1), mustAddr(t, "2.2.2.2", 2)}
	c := AddressList{mustAddr(t, "1.1.1.1", 1)}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, AddressList{}.Equal(nil))
}

func TestAddressList_SortedDoesNotMutate(t *testing.T) {
	list := AddressList{mustAddr(t, "2.2.2.2", 2), mustAddr(t, "1.1.1.1", 1)}
	sorted := list.Sorted()

	assert.Equal(t, "2.2.2.2:2", list[0].String())
	assert.Equal(t, "1.1.1.1:1", sorted[0].String())
}

func TestPeerAddress_JSON(t *testing.T) {
	list := AddressList{mustAddr(t, "127.0.0.1", 8334)}
	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `["127.0.0.1:8334"]`, string(data))

	var back AddressList
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, list.Equal(back))

	var bad PeerAddress
	assert.Error(t, bad.UnmarshalText([]byte("example.org:1")))
}
