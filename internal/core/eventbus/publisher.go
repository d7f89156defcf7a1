package eventbus

import (
	"time"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/types"
)

// ============================================================================
// SeedPublisher 总线实现
// ============================================================================

// Publisher 将发现结果发布为总线事件
//
// 两个发射器均为有状态模式，迟到的订阅者订阅时即可拿到最近一次结果。
type Publisher struct {
	found   pkgif.Emitter
	updated pkgif.Emitter
	now     func() time.Time
}

var _ pkgif.SeedPublisher = (*Publisher)(nil)

// NewPublisher 在总线上创建 EvtSeedsFound/EvtSeedsUpdated 发射器
func NewPublisher(bus pkgif.EventBus) (*Publisher, error) {
	found, err := bus.Emitter(new(types.EvtSeedsFound), pkgif.Stateful())
	if err != nil {
		return nil, err
	}
	updated, err := bus.Emitter(new(types.EvtSeedsUpdated), pkgif.Stateful())
	if err != nil {
		_ = found.Close()
		return nil, err
	}
	return &Publisher{found: found, updated: updated, now: time.Now}, nil
}

// PublishFound 实现 SeedPublisher
func (p *Publisher) PublishFound(source types.Source, addrs types.AddressList) {
	evt := types.EvtSeedsFound{
		Source:    source,
		Addresses: addrs.Clone(),
		Timestamp: p.now(),
	}
	if err := p.found.Emit(evt); err != nil {
		logger.Debug("发布 found 事件失败", "source", source, "err", err)
	}
}

// PublishUpdated 实现 SeedPublisher
func (p *Publisher) PublishUpdated(source types.Source, addrs types.AddressList) {
	evt := types.EvtSeedsUpdated{
		Source:    source,
		Addresses: addrs.Clone(),
		Timestamp: p.now(),
	}
	if err := p.updated.Emit(evt); err != nil {
		logger.Debug("发布 updated 事件失败", "source", source, "err", err)
	}
}

// Close 关闭两个发射器
func (p *Publisher) Close() error {
	return multierr.Combine(p.found.Close(), p.updated.Close())
}
