package capture

import (
	"sync"
	"time"

	"github.com/maddsua/consolelog"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (this *fakeTimer) Stop() bool {

	this.clock.mtx.Lock()
	defer this.clock.mtx.Unlock()

	if this.stopped || this.fired {
		return false
	}

	this.stopped = true
	return true
}

type fakeClock struct {
	mtx    sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (this *fakeClock) Now() time.Time {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	return this.now
}

func (this *fakeClock) AfterFunc(delay time.Duration, fn func()) Timer {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	timer := &fakeTimer{clock: this, at: this.now.Add(delay), fn: fn}
	this.timers = append(this.timers, timer)

	return timer
}

func (this *fakeClock) Advance(delta time.Duration) {

	this.mtx.Lock()

	this.now = this.now.Add(delta)

	var due []*fakeTimer
	for _, timer := range this.timers {
		if !timer.stopped && !timer.fired && !timer.at.After(this.now) {
			timer.fired = true
			due = append(due, timer)
		}
	}

	this.mtx.Unlock()

	for _, timer := range due {
		timer.fn()
	}
}

//	Active counts timers that are neither stopped nor fired
func (this *fakeClock) Active() int {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	var count int
	for _, timer := range this.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}

	return count
}

type recordingTransport struct {
	mtx     sync.Mutex
	sent    []consolelog.Payload
	beacons []consolelog.Payload
}

func (this *recordingTransport) Send(payload consolelog.Payload) {
	this.mtx.Lock()
	defer this.mtx.Unlock()
	this.sent = append(this.sent, payload)
}

func (this *recordingTransport) Beacon(payload consolelog.Payload) {
	this.mtx.Lock()
	defer this.mtx.Unlock()
	this.beacons = append(this.beacons, payload)
}

func (this *recordingTransport) Sent() []consolelog.Payload {
	this.mtx.Lock()
	defer this.mtx.Unlock()
	return append([]consolelog.Payload(nil), this.sent...)
}

func (this *recordingTransport) Beacons() []consolelog.Payload {
	this.mtx.Lock()
	defer this.mtx.Unlock()
	return append([]consolelog.Payload(nil), this.beacons...)
}

type panickyTransport struct{}

func (panickyTransport) Send(consolelog.Payload)   { panic("network is on fire") }
func (panickyTransport) Beacon(consolelog.Payload) { panic("network is on fire") }
