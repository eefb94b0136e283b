package consolelog

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

//	HostLogger is the dev server's own log stream
type HostLogger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

//	SlogLogger re-emits browser lines as slog records
type SlogLogger struct {
	Logger *slog.Logger
}

func (this *SlogLogger) logger() *slog.Logger {
	if this.Logger == nil {
		return slog.Default()
	}
	return this.Logger
}

func (this *SlogLogger) Info(msg string) {
	this.logger().Info(msg)
}

func (this *SlogLogger) Warn(msg string) {
	this.logger().Warn(msg)
}

func (this *SlogLogger) Error(msg string) {
	this.logger().Error(msg)
}

//	WriterLogger prints raw lines prefixed with a wall clock time, the way dev servers usually do.
//	Unlike slog text output it leaves ANSI escapes intact
type WriterLogger struct {
	Out io.Writer
	Now func() time.Time

	mtx sync.Mutex
}

func NewWriterLogger(out io.Writer) *WriterLogger {
	return &WriterLogger{Out: out, Now: time.Now}
}

func (this *WriterLogger) write(msg string) {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	now := time.Now
	if this.Now != nil {
		now = this.Now
	}

	fmt.Fprintf(this.Out, "%s %s\n", now().Format(time.TimeOnly), msg)
}

func (this *WriterLogger) Info(msg string) {
	this.write(msg)
}

func (this *WriterLogger) Warn(msg string) {
	this.write(msg)
}

func (this *WriterLogger) Error(msg string) {
	this.write(msg)
}
