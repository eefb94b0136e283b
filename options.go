package consolelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultRoute       = "/__console-log"
	DefaultTag         = "[browser]"
	DefaultMaxBodySize = 1024 * 1024
)

//	Batching policy shared by the browser script and the go capture engine
const (
	FlushThreshold = 20
	DebounceDelay  = 300 * time.Millisecond
)

type Options struct {
	//	Master switch for both the ingestion route and the client script
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`
	//	Ingestion path the client posts batches to
	Route string `yaml:"route" json:"route" toml:"route"`
	//	Console functions that get intercepted, all of them when empty
	Levels []Level `yaml:"levels" json:"levels" toml:"levels"`
	//	Prefix for re-emitted lines
	Tag string `yaml:"tag" json:"tag" toml:"tag"`
	//	Wrap re-emitted lines into ANSI colors
	Colors bool `yaml:"colors" json:"colors" toml:"colors"`
	//	Upper bound for a single ingestion request body in bytes
	MaxBodySize int64 `yaml:"max_body_size" json:"max_body_size" toml:"max_body_size"`
}

//	DefaultOptions is the base config files get decoded over, so that omitted keys keep their defaults
func DefaultOptions() Options {
	return Options{
		Enabled:     true,
		Route:       DefaultRoute,
		Levels:      append([]Level(nil), AllLevels...),
		Tag:         DefaultTag,
		Colors:      true,
		MaxBodySize: DefaultMaxBodySize,
	}
}

func (this *Options) Valid() error {

	if this.Route = strings.TrimSpace(this.Route); this.Route == "" {
		this.Route = DefaultRoute
	} else if !strings.HasPrefix(this.Route, "/") {
		return errors.New("route must start with a slash")
	}

	seen := map[Level]bool{}
	var levels []Level

	for _, lvl := range this.Levels {

		norm := Level(strings.ToLower(strings.TrimSpace(string(lvl))))
		if !norm.Valid() {
			return fmt.Errorf("unknown console level '%s'", lvl)
		}

		if seen[norm] {
			continue
		}

		seen[norm] = true
		levels = append(levels, norm)
	}

	if len(levels) == 0 {
		levels = append(levels, AllLevels...)
	}

	this.Levels = levels
	this.Tag = strings.TrimSpace(this.Tag)

	if this.MaxBodySize == 0 {
		this.MaxBodySize = DefaultMaxBodySize
	} else if this.MaxBodySize < 1024 {
		return errors.New("max body size cannot be smaller than 1KB")
	}

	return nil
}
