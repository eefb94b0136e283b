package capture

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/maddsua/consolelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPTransport(t *testing.T) {

	transport, err := NewHTTPTransport("localhost:5173")
	require.Error(t, err)
	assert.Nil(t, transport)

	transport, err = NewHTTPTransport("//localhost:5173")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/__console-log", transport.Endpoint())

	transport, err = NewHTTPTransport("https://dev.local/logs")
	require.NoError(t, err)
	assert.Equal(t, "https://dev.local/logs", transport.Endpoint())

	_, err = NewHTTPTransport("ftp://dev.local/logs")
	assert.Error(t, err)
}

func TestHTTPTransportSend(t *testing.T) {

	received := make(chan consolelog.Payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {

		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/__console-log", req.URL.Path)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		var payload consolelog.Payload
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		received <- payload

		wrt.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	transport, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)

	transport.Send(consolelog.Payload{
		SessionID: "s1",
		Entries:   []consolelog.LogEntry{{Level: consolelog.LevelInfo, Text: "hi", Time: 1}},
	})

	select {
	case payload := <-received:
		assert.Equal(t, "s1", payload.SessionID)
		require.Len(t, payload.Entries, 1)
		assert.Equal(t, "hi", payload.Entries[0].Text)
	case <-time.After(5 * time.Second):
		t.Fatal("payload never arrived")
	}
}

func TestHTTPTransportBeaconWaitsForDelivery(t *testing.T) {

	var mtx sync.Mutex
	var count int

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		mtx.Lock()
		count++
		mtx.Unlock()
		wrt.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	transport, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)
	transport.BeaconTimeout = 5 * time.Second

	transport.Beacon(consolelog.Payload{Entries: []consolelog.LogEntry{{Text: "bye"}}})

	mtx.Lock()
	defer mtx.Unlock()
	assert.Equal(t, 1, count)
}

func TestHTTPTransportBeaconGivesUp(t *testing.T) {

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		<-release
		wrt.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	defer close(release)

	transport, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)
	transport.BeaconTimeout = 50 * time.Millisecond

	started := time.Now()
	transport.Beacon(consolelog.Payload{Entries: []consolelog.LogEntry{{Text: "bye"}}})

	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestHTTPTransportReportsErrors(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		wrt.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	transport, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)

	errs := make(chan error, 1)
	transport.OnError = func(err error) {
		errs <- err
	}

	transport.Send(consolelog.Payload{})

	select {
	case err := <-errs:
		assert.EqualError(t, err, "unexpected status '400'")
	case <-time.After(5 * time.Second):
		t.Fatal("error was not reported")
	}
}

type lineLogger struct {
	mtx   sync.Mutex
	lines []string
	done  chan struct{}
	want  int
}

func (this *lineLogger) add(msg string) {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	this.lines = append(this.lines, msg)
	if len(this.lines) == this.want {
		close(this.done)
	}
}

func (this *lineLogger) Info(msg string)  { this.add(msg) }
func (this *lineLogger) Warn(msg string)  { this.add(msg) }
func (this *lineLogger) Error(msg string) { this.add(msg) }

func TestPageToIngester(t *testing.T) {

	opts := consolelog.DefaultOptions()
	opts.Colors = false

	logger := &lineLogger{done: make(chan struct{}), want: 3}
	ingester, err := consolelog.NewIngester(logger, opts)
	require.NoError(t, err)

	srv := httptest.NewServer(ingester.Middleware(http.NotFoundHandler()))
	defer srv.Close()

	transport, err := NewHTTPTransport(srv.URL + opts.Route)
	require.NoError(t, err)

	clock := newFakeClock()
	page := NewPage(NewConsole(&bytes.Buffer{}))
	_, installed := Install(page, Config{Clock: clock, Transport: transport})
	require.True(t, installed)

	page.Console.Log("booted")
	page.Console.Warn("slow render", 120)
	page.Console.Error("crashed")

	clock.Advance(DefaultDebounce)

	select {
	case <-logger.done:
	case <-time.After(5 * time.Second):
		t.Fatal("ingester never logged the batch")
	}

	logger.mtx.Lock()
	defer logger.mtx.Unlock()

	require.Len(t, logger.lines, 3)
	assert.Regexp(t, `^\[browser\] LOG: booted \(capture/transport_test\.go:\d+\)$`, logger.lines[0])
	assert.Regexp(t, `^\[browser\] WARN: slow render 120 \(capture/transport_test\.go:\d+\)$`, logger.lines[1])
	assert.Regexp(t, `^\[browser\] ERROR: crashed \(capture/transport_test\.go:\d+\)$`, logger.lines[2])
}
