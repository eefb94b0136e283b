package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/maddsua/consolelog"
)

//	Transport ships batches without reporting back. Both methods must return quickly
type Transport interface {
	//	Send is the regular fire-and-forget path
	Send(payload consolelog.Payload)
	//	Beacon is used while the page goes away and must not depend on the page staying alive
	Beacon(payload consolelog.Payload)
}

type NopTransport struct{}

func (NopTransport) Send(consolelog.Payload)   {}
func (NopTransport) Beacon(consolelog.Payload) {}

const (
	DefaultSendTimeout   = 5 * time.Second
	DefaultBeaconTimeout = 500 * time.Millisecond
)

type HTTPTransport struct {
	Client        *http.Client
	SendTimeout   time.Duration
	BeaconTimeout time.Duration
	//	Optional; delivery errors are dropped otherwise
	OnError func(err error)

	endpoint url.URL
}

func NewHTTPTransport(endpoint string) (*HTTPTransport, error) {

	target, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	if target.Host == "" {
		return nil, fmt.Errorf("url host is not defined")
	}

	switch target.Scheme {
	case "":
		target.Scheme = "http"
	case "http", "https":
		break
	default:
		return nil, fmt.Errorf("unsupported url protocol")
	}

	if target.Path == "" {
		target.Path = consolelog.DefaultRoute
	}

	return &HTTPTransport{endpoint: *target}, nil
}

func (this *HTTPTransport) Endpoint() string {
	return this.endpoint.String()
}

func (this *HTTPTransport) Send(payload consolelog.Payload) {

	timeout := this.SendTimeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		this.report(this.post(ctx, payload))
	}()
}

//	Beacon has no unload-safe primitive to lean on, so it starts the request and waits for it
//	at most BeaconTimeout before giving up on the result
func (this *HTTPTransport) Beacon(payload consolelog.Payload) {

	timeout := this.BeaconTimeout
	if timeout <= 0 {
		timeout = DefaultBeaconTimeout
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), DefaultSendTimeout)
		defer cancel()
		this.report(this.post(ctx, payload))
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

func (this *HTTPTransport) report(err error) {
	if err != nil && this.OnError != nil {
		this.OnError(err)
	}
}

func (this *HTTPTransport) post(ctx context.Context, payload consolelog.Payload) error {

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return fmt.Errorf("json.Marshal: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, this.endpoint.String(), &body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	client := this.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status '%d'", resp.StatusCode)
	}

	return nil
}
