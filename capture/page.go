package capture

import (
	"fmt"
	"io"
	"sync"

	"github.com/maddsua/consolelog"
)

type Func func(args ...any)

//	Console is the set of diagnostic functions a page exposes, one per level
type Console struct {
	mtx   sync.RWMutex
	funcs map[consolelog.Level]Func
}

//	NewConsole creates a console that echoes every call to out
func NewConsole(out io.Writer) *Console {

	var writeMtx sync.Mutex

	var echo = func(args ...any) {
		writeMtx.Lock()
		defer writeMtx.Unlock()
		fmt.Fprintln(out, args...)
	}

	console := &Console{funcs: map[consolelog.Level]Func{}}
	for _, lvl := range consolelog.AllLevels {
		console.funcs[lvl] = echo
	}

	return console
}

func (this *Console) Func(lvl consolelog.Level) Func {

	this.mtx.RLock()
	defer this.mtx.RUnlock()

	return this.funcs[lvl]
}

func (this *Console) SetFunc(lvl consolelog.Level, fn Func) {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	if this.funcs == nil {
		this.funcs = map[consolelog.Level]Func{}
	}

	this.funcs[lvl] = fn
}

func (this *Console) call(lvl consolelog.Level, args []any) {

	fn := this.Func(lvl)
	if fn == nil {
		fn = this.Func(consolelog.LevelLog)
	}

	if fn != nil {
		fn(args...)
	}
}

func (this *Console) Log(args ...any) {
	this.call(consolelog.LevelLog, args)
}

func (this *Console) Info(args ...any) {
	this.call(consolelog.LevelInfo, args)
}

func (this *Console) Warn(args ...any) {
	this.call(consolelog.LevelWarn, args)
}

func (this *Console) Error(args ...any) {
	this.call(consolelog.LevelError, args)
}

func (this *Console) Debug(args ...any) {
	this.call(consolelog.LevelDebug, args)
}

//	Page stands for one page load: its console, the installed engine and the lifecycle listeners
type Page struct {
	Console *Console

	mtx      sync.Mutex
	engine   *Engine
	hidden   []func()
	teardown []func()
}

func NewPage(console *Console) *Page {
	return &Page{Console: console}
}

//	Engine returns the installed engine or nil
func (this *Page) Engine() *Engine {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	return this.engine
}

func (this *Page) OnHidden(fn func()) {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	this.hidden = append(this.hidden, fn)
}

func (this *Page) OnTeardown(fn func()) {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	this.teardown = append(this.teardown, fn)
}

//	Hide signals that the page is no longer visible
func (this *Page) Hide() {

	this.mtx.Lock()
	listeners := append([]func(){}, this.hidden...)
	this.mtx.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

//	Teardown signals that the page is going away
func (this *Page) Teardown() {

	this.mtx.Lock()
	listeners := append([]func(){}, this.teardown...)
	this.mtx.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
