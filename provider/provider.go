package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/maddsua/consolelog"
	"github.com/maddsua/consolelog/client"
)

const (
	//	PublicID is what application code imports
	PublicID = "virtual:console-log-client"
	//	InternalID is the resolved marker, NUL-prefixed the way rollup style virtual ids are
	InternalID = "\x00" + PublicID
)

//	AssetPath is where dev servers expose the virtual module over http
const AssetPath = "/@id/" + PublicID

const ModeProduction = "production"

var _ Hooks = (*Provider)(nil)

type LoadContext struct {
	//	Module is being loaded for a server rendering pass
	SSR bool
	//	Build mode; when empty NODE_ENV decides
	Mode string
}

func (this LoadContext) production() bool {
	if this.Mode != "" {
		return this.Mode == ModeProduction
	}
	return os.Getenv("NODE_ENV") == ModeProduction
}

//	MiddlewareHost is a dev server that accepts request middlewares
type MiddlewareHost interface {
	Use(middleware func(next http.Handler) http.Handler)
}

//	Hooks is the capability set a build host drives
type Hooks interface {
	Resolve(id string) (string, bool)
	Load(id string, ctx LoadContext) (string, bool)
	RegisterIngestion(host MiddlewareHost) error
}

type Provider struct {
	Options consolelog.Options
	Logger  consolelog.HostLogger
}

func New(opts consolelog.Options, logger consolelog.HostLogger) (*Provider, error) {

	if err := opts.Valid(); err != nil {
		return nil, fmt.Errorf("invalid options: %s", err.Error())
	}

	return &Provider{Options: opts, Logger: logger}, nil
}

func (this *Provider) Resolve(id string) (string, bool) {
	if id == PublicID {
		return InternalID, true
	}
	return "", false
}

func (this *Provider) Load(id string, ctx LoadContext) (string, bool) {

	if id != InternalID {
		return "", false
	}

	if ctx.SSR || ctx.production() || !this.Options.Enabled {
		return client.Stub, true
	}

	script, err := client.Script(this.Options)
	if err != nil {
		slog.Error("PROVIDER Unable to render client script",
			slog.String("err", err.Error()))
		return client.Stub, true
	}

	return script, true
}

func (this *Provider) RegisterIngestion(host MiddlewareHost) error {

	if !this.Options.Enabled {
		slog.Debug("PROVIDER Ingestion disabled")
		return nil
	}

	if host == nil {
		return errors.New("middleware host is required")
	}

	ingester, err := consolelog.NewIngester(this.Logger, this.Options)
	if err != nil {
		return err
	}

	host.Use(ingester.Middleware)

	slog.Debug("PROVIDER Ingestion registered",
		slog.String("route", ingester.Options.Route))

	return nil
}

//	AssetMiddleware serves the virtual module at AssetPath as a browser, development mode load
func (this *Provider) AssetMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {

		if req.URL.Path != AssetPath || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
			next.ServeHTTP(wrt, req)
			return
		}

		internalID, _ := this.Resolve(PublicID)
		source, _ := this.Load(internalID, LoadContext{Mode: "development"})

		wrt.Header().Set("content-type", "text/javascript; charset=utf-8")
		wrt.Header().Set("cache-control", "no-cache")
		wrt.WriteHeader(http.StatusOK)

		if req.Method == http.MethodGet {
			wrt.Write([]byte(source))
		}
	})
}
