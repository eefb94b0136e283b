// Package client renders the browser half of consolelog: a self-installing script that
// wraps console functions and beacons batches to the ingestion route.
package client

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/maddsua/consolelog"
)

//go:embed client.js.tmpl
var scriptSource string

var scriptTemplate = template.Must(template.New("client.js").Parse(scriptSource))

//	Stub is served wherever the client must not run: production builds and server rendering
const Stub = "export default undefined;\n"

//	InstalledFlag is the window property that guards against a second installation
const InstalledFlag = "__console_log_installed__"

type scriptParams struct {
	Route     string
	Levels    string
	Threshold int
	Debounce  int64
}

func Script(opts consolelog.Options) (string, error) {

	if err := opts.Valid(); err != nil {
		return "", fmt.Errorf("invalid options: %s", err.Error())
	}

	route, err := json.Marshal(opts.Route)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %v", err)
	}

	levelsJSON, err := json.Marshal(opts.Levels)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %v", err)
	}

	var out strings.Builder
	if err := scriptTemplate.Execute(&out, scriptParams{
		Route:     string(route),
		Levels:    string(levelsJSON),
		Threshold: consolelog.FlushThreshold,
		Debounce:  consolelog.DebounceDelay.Milliseconds(),
	}); err != nil {
		return "", fmt.Errorf("failed to render client script: %v", err)
	}

	return out.String(), nil
}
