package irc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ergochat/irc-go/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerseed/pkg/types"
)

// ============================================================================
//                              测试服务器
// ============================================================================

type fakeServer struct {
	t        *testing.T
	ln       net.Listener
	accepted chan *serverConn
}

type serverConn struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeServer{t: t, ln: ln, accepted: make(chan *serverConn, 4)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.accepted <- &serverConn{t: t, conn: conn, reader: bufio.NewReader(conn)}
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeServer) addr() string {
	return s.ln.Addr().String()
}

func (s *fakeServer) accept() *serverConn {
	s.t.Helper()
	select {
	case sc := <-s.accepted:
		s.t.Cleanup(func() { _ = sc.conn.Close() })
		return sc
	case <-time.After(5 * time.Second):
		s.t.Fatal("timeout waiting for connection")
		return nil
	}
}

func (sc *serverConn) readMessage() ircmsg.Message {
	sc.t.Helper()
	_ = sc.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	line, err := sc.reader.ReadString('\n')
	require.NoError(sc.t, err)
	msg, err := ircmsg.ParseLine(strings.TrimRight(line, "\r\n"))
	require.NoError(sc.t, err)
	return msg
}

func (sc *serverConn) writeLine(format string, args ...any) {
	sc.t.Helper()
	_, err := fmt.Fprintf(sc.conn, format+"\r\n", args...)
	require.NoError(sc.t, err)
}

// expectRegistration 读取 NICK 与 USER
func (sc *serverConn) expectRegistration(nick string) {
	sc.t.Helper()
	msg := sc.readMessage()
	require.Equal(sc.t, "NICK", msg.Command)
	require.Equal(sc.t, []string{nick}, msg.Params)

	msg = sc.readMessage()
	require.Equal(sc.t, "USER", msg.Command)
	require.Len(sc.t, msg.Params, 4)
	assert.Equal(sc.t, nick, msg.Params[0])
}

func testConfig(addr string) Config {
	cfg := DefaultConfig()
	cfg.Server = addr
	cfg.DialTimeout = 5 * time.Second
	cfg.SendRate = 0
	cfg.ReconnectDelay = 0
	return cfg
}

func nextEvent(t *testing.T, c *Client) types.ChatEvent {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
		return types.ChatEvent{}
	}
}

// ============================================================================
//                              测试用例
// ============================================================================

func TestClient_RegisterAndWelcome(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "u88qSoM5z6w9QqB"))
	sc := srv.accept()
	sc.expectRegistration("u88qSoM5z6w9QqB")

	sc.writeLine(":irc.example.org 001 u88qSoM5z6w9QqB :Welcome")
	ev := nextEvent(t, c)
	assert.Equal(t, types.ChatEventRegistered, ev.Kind)
	assert.True(t, c.Registered())

	require.NoError(t, c.Join("#bitcoin00"))
	msg := sc.readMessage()
	assert.Equal(t, "JOIN", msg.Command)
	assert.Equal(t, []string{"#bitcoin00"}, msg.Params)
}

func TestClient_PingPong(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")

	sc.writeLine("PING :irc.example.org")
	msg := sc.readMessage()
	assert.Equal(t, "PONG", msg.Command)
	assert.Equal(t, []string{"irc.example.org"}, msg.Params)
}

func TestClient_NickInUse(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")

	sc.writeLine(":irc.example.org 433 * unick :Nickname is already in use")
	msg := sc.readMessage()
	assert.Equal(t, "NICK", msg.Command)
	assert.Equal(t, []string{"unick_"}, msg.Params)
	assert.Equal(t, "unick_", c.Nick())
}

func TestClient_MessagePassThrough(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")

	sc.writeLine(":irc.example.org 352 unick #bitcoin00 user host irc.example.org u88qSoM5z6w9QqB H :0 real name")
	sc.writeLine(":irc.example.org 315 unick #bitcoin00 :End of /WHO list.")

	ev := nextEvent(t, c)
	assert.Equal(t, types.ChatEventMessage, ev.Kind)
	assert.Equal(t, "352", ev.Command)
	nick, ok := ev.Param(5)
	require.True(t, ok)
	assert.Equal(t, "u88qSoM5z6w9QqB", nick)

	ev = nextEvent(t, c)
	assert.Equal(t, "315", ev.Command)
	channel, _ := ev.Param(1)
	assert.Equal(t, "#bitcoin00", channel)
}

func TestClient_ServerError(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")

	sc.writeLine("ERROR :Closing link")
	ev := nextEvent(t, c)
	assert.Equal(t, types.ChatEventError, ev.Kind)
	assert.ErrorIs(t, ev.Err, ErrServerError)
}

func TestClient_DisconnectWithoutReconnect(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")
	require.NoError(t, sc.conn.Close())

	ev := nextEvent(t, c)
	assert.Equal(t, types.ChatEventError, ev.Kind)
	ev = nextEvent(t, c)
	assert.Equal(t, types.ChatEventClosed, ev.Kind)

	assert.ErrorIs(t, c.Send("WHO", "#bitcoin00"), ErrNotConnected)
}

func TestClient_Reconnect(t *testing.T) {
	srv := newFakeServer(t)
	mock := clock.NewMock()

	cfg := testConfig(srv.addr())
	cfg.ReconnectDelay = 10 * time.Second
	c := NewClient(cfg, WithClock(mock))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")
	sc.writeLine(":srv 001 unick :Welcome")
	assert.Equal(t, types.ChatEventRegistered, nextEvent(t, c).Kind)

	require.NoError(t, sc.conn.Close())
	assert.Equal(t, types.ChatEventError, nextEvent(t, c).Kind)

	// 重连定时器在后台 goroutine 中创建，持续推进时钟直到发生拨号
	var sc2 *serverConn
	require.Eventually(t, func() bool {
		mock.Add(cfg.ReconnectDelay)
		select {
		case sc2 = <-srv.accepted:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	defer sc2.conn.Close()

	sc2.expectRegistration("unick")
	sc2.writeLine(":srv 001 unick :Welcome back")
	assert.Equal(t, types.ChatEventRegistered, nextEvent(t, c).Kind)
}

func TestClient_SendBeforeConnect(t *testing.T) {
	c := NewClient(testConfig("127.0.0.1:1"))
	defer c.Close()

	assert.ErrorIs(t, c.Send("WHO", "#bitcoin00"), ErrNotConnected)
}

func TestClient_InvalidNick(t *testing.T) {
	c := NewClient(testConfig("127.0.0.1:1"))
	defer c.Close()

	for _, nick := range []string{"", "has space", ":colon", "#chan"} {
		assert.ErrorIs(t, c.Connect(context.Background(), nick), ErrInvalidNick, nick)
	}
}

func TestClient_DialFailureAllowsRetry(t *testing.T) {
	dialErr := errors.New("refused")
	attempts := 0
	c := NewClient(testConfig("irc.invalid:6667"), WithDialer(func(context.Context, string, string) (net.Conn, error) {
		attempts++
		return nil, dialErr
	}))
	defer c.Close()

	assert.ErrorIs(t, c.Connect(context.Background(), "unick"), dialErr)
	assert.ErrorIs(t, c.Connect(context.Background(), "unick"), dialErr)
	assert.Equal(t, 2, attempts)
}

func TestClient_Close(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))

	require.NoError(t, c.Connect(context.Background(), "unick"))
	sc := srv.accept()
	sc.expectRegistration("unick")

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, ok := <-c.Events()
	assert.False(t, ok, "events channel should be closed")

	assert.ErrorIs(t, c.Send("WHO", "#bitcoin00"), ErrClosed)
	assert.ErrorIs(t, c.Connect(context.Background(), "unick"), ErrClosed)
}

func TestClient_ConnectTwice(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(testConfig(srv.addr()))
	defer c.Close()

	require.NoError(t, c.Connect(context.Background(), "unick"))
	srv.accept()
	assert.ErrorIs(t, c.Connect(context.Background(), "unick"), ErrAlreadyConnected)
}

func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFromUnified(nil))
}
