package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/types"
)

type testEvent struct {
	Value int
}

// TestBus_EmitAndReceive 测试事件发射和接收
func TestBus_EmitAndReceive(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(testEvent{Value: 42}))

	select {
	case evt := <-sub.Out():
		assert.Equal(t, testEvent{Value: 42}, evt)
	case <-time.After(time.Second):
		t.Fatal("未收到事件")
	}
}

// TestBus_InvalidEventType 测试非法事件类型
func TestBus_InvalidEventType(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe(nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = bus.Subscribe(testEvent{})
	assert.ErrorIs(t, err, ErrNonPointerType)

	_, err = bus.Emitter(testEvent{})
	assert.ErrorIs(t, err, ErrNonPointerType)
}

// TestBus_EmitNeverBlocks 测试缓冲区满时丢弃而不阻塞
func TestBus_EmitNeverBlocks(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent), pkgif.BufSize(1))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = em.Emit(testEvent{Value: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit 被阻塞")
	}

	assert.Equal(t, testEvent{Value: 0}, <-sub.Out())
}

// TestBus_StatefulReplay 测试有状态发射器向迟到订阅者补发
func TestBus_StatefulReplay(t *testing.T) {
	bus := NewBus()

	em, err := bus.Emitter(new(testEvent), pkgif.Stateful())
	require.NoError(t, err)
	require.NoError(t, em.Emit(testEvent{Value: 1}))
	require.NoError(t, em.Emit(testEvent{Value: 2}))

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	defer sub.Close()

	assert.Equal(t, testEvent{Value: 2}, <-sub.Out())
}

// TestBus_CloseSemantics 测试关闭语义
func TestBus_CloseSemantics(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok, "关闭后通道应已关闭")

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)
	require.NoError(t, em.Close())
	assert.ErrorIs(t, em.Emit(testEvent{}), ErrEmitterClosed)

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	assert.Empty(t, bus.nodes, "无订阅者与发射器时节点应被回收")
}

// TestPublisher_Events 测试 SeedPublisher 总线实现
func TestPublisher_Events(t *testing.T) {
	bus := NewBus()
	pub, err := NewPublisher(bus)
	require.NoError(t, err)
	defer pub.Close()

	foundSub, err := bus.Subscribe(new(types.EvtSeedsFound))
	require.NoError(t, err)
	defer foundSub.Close()
	updatedSub, err := bus.Subscribe(new(types.EvtSeedsUpdated))
	require.NoError(t, err)
	defer updatedSub.Close()

	addr, err := types.ParsePeerAddress("1.1.1.1", 1)
	require.NoError(t, err)
	list := types.AddressList{addr}

	pub.PublishFound(types.SourceIRC, list)
	pub.PublishUpdated(types.SourceIRC, list)

	found := (<-foundSub.Out()).(types.EvtSeedsFound)
	assert.Equal(t, types.SourceIRC, found.Source)
	assert.True(t, list.Equal(found.Addresses))
	assert.False(t, found.Timestamp.IsZero())

	updated := (<-updatedSub.Out()).(types.EvtSeedsUpdated)
	assert.True(t, list.Equal(updated.Addresses))

	// 事件持有副本，不与调用方共享底层数组
	list[0] = types.PeerAddress{}
	assert.Equal(t, "1.1.1.1:1", updated.Addresses[0].String())
}
