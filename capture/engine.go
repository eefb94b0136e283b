package capture

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maddsua/consolelog"
)

const (
	DefaultFlushThreshold = consolelog.FlushThreshold
	DefaultDebounce       = consolelog.DebounceDelay
)

type Config struct {
	//	Console levels to wrap, all of them when empty
	Levels []consolelog.Level
	//	Defaults to SystemClock
	Clock Clock
	//	Defaults to a transport that drops everything
	Transport Transport
	//	Queue length that triggers an immediate flush
	FlushThreshold int
	//	Quiet period before a scheduled flush
	Debounce time.Duration
	//	Generated when empty
	SessionID string
}

type Engine struct {
	clock     Clock
	transport Transport
	threshold int
	debounce  time.Duration
	sessionID string
	levels    []consolelog.Level

	mtx        sync.Mutex
	queue      []consolelog.LogEntry
	timer      Timer
	generation uint64
}

func NewSessionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}

func newEngine(cfg Config) *Engine {

	this := Engine{
		clock:     cfg.Clock,
		transport: cfg.Transport,
		threshold: cfg.FlushThreshold,
		debounce:  cfg.Debounce,
		sessionID: cfg.SessionID,
		levels:    cfg.Levels,
	}

	if this.clock == nil {
		this.clock = SystemClock{}
	}

	if this.transport == nil {
		this.transport = NopTransport{}
	}

	if this.threshold <= 0 {
		this.threshold = DefaultFlushThreshold
	}

	if this.debounce <= 0 {
		this.debounce = DefaultDebounce
	}

	if this.sessionID == "" {
		this.sessionID = NewSessionID()
	}

	if len(this.levels) == 0 {
		this.levels = consolelog.AllLevels
	}

	return &this
}

//	Install instruments the page console. A page that already has an engine is left alone
//	and the existing engine is returned together with false
func Install(page *Page, cfg Config) (*Engine, bool) {

	page.mtx.Lock()
	defer page.mtx.Unlock()

	if page.engine != nil {
		return page.engine, false
	}

	this := newEngine(cfg)

	if page.Console == nil {
		page.Console = &Console{}
	}

	//	originals are resolved before any level gets wrapped
	originals := map[consolelog.Level]Func{}
	for _, lvl := range this.levels {
		original := page.Console.Func(lvl)
		if original == nil {
			original = page.Console.Func(consolelog.LevelLog)
		}
		originals[lvl] = original
	}

	for _, lvl := range this.levels {
		this.wrap(page.Console, lvl, originals[lvl])
	}

	page.hidden = append(page.hidden, this.flushBeacon)
	page.teardown = append(page.teardown, this.flushBeacon)
	page.engine = this

	return this, true
}

func (this *Engine) wrap(console *Console, lvl consolelog.Level, original Func) {
	console.SetFunc(lvl, func(args ...any) {

		this.enqueue(consolelog.LogEntry{
			Level:  lvl,
			Text:   consolelog.FormatArgs(args...),
			Source: callerSource(),
			Time:   consolelog.NewUnixMilli(this.clock.Now()),
		})

		if original != nil {
			original(args...)
		}
	})
}

func (this *Engine) SessionID() string {
	return this.sessionID
}

//	Pending is the number of queued entries that have not been flushed yet
func (this *Engine) Pending() int {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	return len(this.queue)
}

func (this *Engine) enqueue(entry consolelog.LogEntry) {

	this.mtx.Lock()

	this.queue = append(this.queue, entry)

	var batch []consolelog.LogEntry
	if len(this.queue) >= this.threshold {
		batch = this.drain()
	} else if this.timer == nil {
		this.generation++
		gen := this.generation
		this.timer = this.clock.AfterFunc(this.debounce, func() {
			this.timerFired(gen)
		})
	}

	this.mtx.Unlock()

	if batch != nil {
		this.send(batch, false)
	}
}

func (this *Engine) timerFired(gen uint64) {

	this.mtx.Lock()

	//	an early flush has already taken care of this timer
	if this.timer == nil || this.generation != gen {
		this.mtx.Unlock()
		return
	}

	batch := this.drain()
	this.mtx.Unlock()

	this.send(batch, false)
}

//	drain empties the queue and cancels the pending timer. Caller must hold mtx
func (this *Engine) drain() []consolelog.LogEntry {

	if this.timer != nil {
		this.timer.Stop()
		this.timer = nil
	}

	if len(this.queue) == 0 {
		return nil
	}

	batch := this.queue
	this.queue = nil

	return batch
}

//	Flush sends whatever is queued right away
func (this *Engine) Flush() {
	this.flush(false)
}

func (this *Engine) flushBeacon() {
	this.flush(true)
}

func (this *Engine) flush(beacon bool) {

	this.mtx.Lock()
	batch := this.drain()
	this.mtx.Unlock()

	this.send(batch, beacon)
}

func (this *Engine) send(batch []consolelog.LogEntry, beacon bool) {

	if len(batch) == 0 {
		return
	}

	//	transport panics stay contained
	defer func() {
		_ = recover()
	}()

	payload := consolelog.Payload{
		SessionID: this.sessionID,
		Entries:   batch,
	}

	if beacon {
		this.transport.Beacon(payload)
		return
	}

	this.transport.Send(payload)
}
