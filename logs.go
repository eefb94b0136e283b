package consolelog

import (
	"strconv"
	"strings"
	"time"
)

type Level string

const (
	LevelLog   Level = "log"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelDebug Level = "debug"
)

//	AllLevels lists every console level in the order they get intercepted by default
var AllLevels = []Level{LevelLog, LevelInfo, LevelWarn, LevelError, LevelDebug}

func (this Level) Valid() bool {
	switch this {
	case LevelLog, LevelInfo, LevelWarn, LevelError, LevelDebug:
		return true
	default:
		return false
	}
}

func (this Level) String() string {
	if this.Valid() {
		return string(this)
	}
	return string(LevelLog)
}

//	ParseLevel never fails: anything unknown becomes a plain log entry
func ParseLevel(val string) Level {

	lvl := Level(strings.ToLower(strings.TrimSpace(val)))
	if lvl.Valid() {
		return lvl
	}

	return LevelLog
}

type UnixMilli int64

func (this UnixMilli) Time() time.Time {
	if this > 0 {
		return time.UnixMilli(int64(this))
	}
	return time.Now()
}

func (this UnixMilli) String() string {
	return strconv.FormatInt(int64(this), 10)
}

func NewUnixMilli(ts time.Time) UnixMilli {
	return UnixMilli(ts.UnixMilli())
}

type LogEntry struct {
	//	Console function that produced the entry
	Level Level `json:"level"`
	//	Formatted console arguments
	Text string `json:"text"`
	//	Call site as file:line, empty when unknown
	Source string `json:"source"`
	//	Entry creation date
	Time UnixMilli `json:"time"`
}

type Payload struct {
	SessionID string     `json:"sessionId"`
	Entries   []LogEntry `json:"entries"`
}
