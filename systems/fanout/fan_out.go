// Package fanout contains implementation of pub-sub fanout channels.
package fanout

import (
	"math/rand"
	"sync"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/utils"
)

// Subscriber channel capacity. Updates for a full subscriber are dropped.
const subscriberBuffer = 50

// Implements IFanOutProvider.
type provider struct {
	bulb    sync.Mutex
	program sync.Mutex

	inBulbUpdates  chan *common.MsgBulbUpdate
	outBulbUpdates map[int64]chan *common.MsgBulbUpdate

	inProgramUpdates  chan *common.MsgProgramStatus
	outProgramUpdates map[int64]chan *common.MsgProgramStatus
}

// NewFanOut constructs new FanOut provider.
func NewFanOut() providers.IFanOutProvider {
	p := &provider{
		inBulbUpdates:     make(chan *common.MsgBulbUpdate, 10),
		outBulbUpdates:    make(map[int64]chan *common.MsgBulbUpdate),
		inProgramUpdates:  make(chan *common.MsgProgramStatus, 10),
		outProgramUpdates: make(map[int64]chan *common.MsgProgramStatus),
	}

	go p.internalCycle()
	return p
}

// SubscribeBulbUpdates allows to subscribe to the bulb updates.
func (p *provider) SubscribeBulbUpdates() (int64, chan *common.MsgBulbUpdate) {
	p.bulb.Lock()
	defer p.bulb.Unlock()

	c := make(chan *common.MsgBulbUpdate, subscriberBuffer)
	rnd := p.getID()
	p.outBulbUpdates[rnd] = c
	return rnd, c
}

// UnSubscribeBulbUpdates allows to un-subscribe from the bulb updates.
// nolint:dupl
func (p *provider) UnSubscribeBulbUpdates(id int64) {
	p.bulb.Lock()
	defer p.bulb.Unlock()

	c, ok := p.outBulbUpdates[id]
	if !ok {
		return
	}

	close(c)
	delete(p.outBulbUpdates, id)
}

// ChannelInBulbUpdates returns input channel for the bulb updates.
func (p *provider) ChannelInBulbUpdates() chan *common.MsgBulbUpdate {
	return p.inBulbUpdates
}

// SubscribeProgramUpdates allows to subscribe for the program status updates.
func (p *provider) SubscribeProgramUpdates() (int64, chan *common.MsgProgramStatus) {
	p.program.Lock()
	defer p.program.Unlock()

	c := make(chan *common.MsgProgramStatus, subscriberBuffer)
	rnd := p.getID()
	p.outProgramUpdates[rnd] = c
	return rnd, c
}

// UnSubscribeProgramUpdates allows to un-subscribe from the program status updates.
// nolint:dupl
func (p *provider) UnSubscribeProgramUpdates(id int64) {
	p.program.Lock()
	defer p.program.Unlock()

	c, ok := p.outProgramUpdates[id]
	if !ok {
		return
	}

	close(c)
	delete(p.outProgramUpdates, id)
}

// ChannelInProgramUpdates returns input channel for the program status updates.
func (p *provider) ChannelInProgramUpdates() chan *common.MsgProgramStatus {
	return p.inProgramUpdates
}

// Returns random ID.
func (p *provider) getID() int64 {
	return utils.TimeNow() + rand.Int63()
}

func (p *provider) internalCycle() {
	for {
		select {
		case u := <-p.inBulbUpdates:
			p.bulbUpdates(u)
		case u := <-p.inProgramUpdates:
			p.programUpdates(u)
		}
	}
}

// Broadcasts bulb updates.
func (p *provider) bulbUpdates(update *common.MsgBulbUpdate) {
	p.bulb.Lock()
	defer p.bulb.Unlock()

	for _, v := range p.outBulbUpdates {
		select {
		case v <- update:
		default:
		}
	}
}

// Broadcasts program updates.
func (p *provider) programUpdates(update *common.MsgProgramStatus) {
	p.program.Lock()
	defer p.program.Unlock()

	for _, v := range p.outProgramUpdates {
		select {
		case v <- update:
		default:
		}
	}
}
