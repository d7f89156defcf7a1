package irc

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerseed/pkg/types"
)

// ============================================================================
//                              fakeTransport
// ============================================================================

type sentCommand struct {
	Command string
	Params  []string
}

// fakeTransport 内存传输
//
// events 无缓冲：push 返回即表示事件循环已取走该事件，
// 随后的 Addresses 调用可作为处理完成的屏障。
type fakeTransport struct {
	t *testing.T

	events chan types.ChatEvent
	closed chan struct{}

	mu         sync.Mutex
	nick       string
	joined     []string
	sent       []sentCommand
	connectErr error
	sendErr    error
	closeCount int
	closeOnce  sync.Once
}

func newFakeTransport(t *testing.T) *fakeTransport {
	return &fakeTransport{
		t:      t,
		events: make(chan types.ChatEvent),
		closed: make(chan struct{}),
	}
}

func (f *fakeTransport) Connect(_ context.Context, nick string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nick = nick
	return f.connectErr
}

func (f *fakeTransport) Join(channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, channel)
	return nil
}

func (f *fakeTransport) Send(command string, params ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentCommand{Command: command, Params: slices.Clone(params)})
	return nil
}

func (f *fakeTransport) Events() <-chan types.ChatEvent {
	return f.events
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closeCount++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// push 投递一个事件，阻塞直到事件循环取走
func (f *fakeTransport) push(ev types.ChatEvent) bool {
	f.t.Helper()
	select {
	case f.events <- ev:
		return true
	case <-f.closed:
		return false
	case <-time.After(5 * time.Second):
		f.t.Fatal("timeout pushing event")
		return false
	}
}

func (f *fakeTransport) registered() {
	f.push(types.ChatEvent{Kind: types.ChatEventRegistered, Command: "001"})
}

func (f *fakeTransport) whoReply(channel, nick string) bool {
	return f.push(types.ChatEvent{
		Kind:    types.ChatEventMessage,
		Command: rplWhoReply,
		Params:  []string{"me", channel, "user", "host", "irc.example.org", nick, "H", "0 real"},
	})
}

func (f *fakeTransport) endOfWho(channel string) bool {
	return f.push(types.ChatEvent{
		Kind:    types.ChatEventMessage,
		Command: rplEndOfWho,
		Params:  []string{"me", channel, "End of /WHO list."},
	})
}

func (f *fakeTransport) whoCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.sent {
		if c.Command == "WHO" {
			n++
		}
	}
	return n
}

func (f *fakeTransport) setSendErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

func (f *fakeTransport) snapshot() (nick string, joined []string, sent []sentCommand, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nick, slices.Clone(f.joined), slices.Clone(f.sent), f.closeCount
}

// ============================================================================
//                              recorder
// ============================================================================

type publication struct {
	Event  string
	Source types.Source
	Addrs  []string
}

type recorder struct {
	mu   sync.Mutex
	pubs []publication
}

func (r *recorder) PublishFound(source types.Source, addrs types.AddressList) {
	r.record("found", source, addrs)
}

func (r *recorder) PublishUpdated(source types.Source, addrs types.AddressList) {
	r.record("updated", source, addrs)
}

func (r *recorder) record(event string, source types.Source, addrs types.AddressList) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pubs = append(r.pubs, publication{Event: event, Source: source, Addrs: addrs.Strings()})
}

func (r *recorder) all() []publication {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.pubs)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, p := range r.all() {
		if p.Event == event {
			n++
		}
	}
	return n
}

func mustNick(t *testing.T, host string, port int) string {
	t.Helper()
	nick, err := EncodeNickname(host, port)
	require.NoError(t, err)
	return nick
}
