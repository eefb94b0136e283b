package consolelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

type Ingester struct {
	Logger  HostLogger
	Options Options
}

func NewIngester(logger HostLogger, opts Options) (*Ingester, error) {

	if logger == nil {
		return nil, errors.New("host logger is required")
	}

	if err := opts.Valid(); err != nil {
		return nil, fmt.Errorf("invalid options: %s", err.Error())
	}

	return &Ingester{Logger: logger, Options: opts}, nil
}

//	Middleware only takes over POST requests to the ingestion route, the rest goes to next
func (this *Ingester) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {

		if req.Method != http.MethodPost || req.URL.Path != this.route() {
			next.ServeHTTP(wrt, req)
			return
		}

		this.ServeHTTP(wrt, req)
	})
}

func (this *Ingester) route() string {
	if this.Options.Route == "" {
		return DefaultRoute
	}
	return this.Options.Route
}

func (this *Ingester) ServeHTTP(wrt http.ResponseWriter, req *http.Request) {

	clientIP := parseXff(req)

	var respondError = func(message string, status int) {

		slog.Debug("INGESTER Batch rejected",
			slog.String("ip", clientIP),
			slog.Int("status", status),
			slog.String("err", message))

		wrt.Header().Set("content-type", "text/plain")
		wrt.WriteHeader(status)
		wrt.Write([]byte(message + "\r\n"))
	}

	if req.Method != http.MethodPost {
		respondError("method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBodySize := this.Options.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	body, err := io.ReadAll(http.MaxBytesReader(wrt, req.Body, maxBodySize))
	if err != nil {

		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(fmt.Sprintf("payload exceeds %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
			return
		}

		respondError(fmt.Sprintf("failed to read body: %v", err), http.StatusBadRequest)
		return
	}

	batch, err := decodeBatch(body)
	if err != nil {
		respondError(err.Error(), http.StatusBadRequest)
		return
	}

	slog.Debug("INGESTER Received",
		slog.Int("entries", len(batch.Entries)),
		slog.String("ip", clientIP),
		slog.String("session_id", batch.SessionID))

	for idx, raw := range batch.Entries {

		//	entries that are not objects still get emitted as empty log lines
		var entry ingesterEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			slog.Debug("INGESTER Entry defaulted",
				slog.Int("index", idx),
				slog.String("session_id", batch.SessionID),
				slog.String("err", err.Error()))
			entry = ingesterEntry{}
		}

		this.emit(entry)
	}

	wrt.WriteHeader(http.StatusNoContent)
}

func decodeBatch(body []byte) (*ingesterBatch, error) {

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %v", err)
	}

	if err := payloadSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid batch payload: %v", err)
	}

	var batch ingesterBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %v", err)
	}

	if len(batch.Entries) == 0 {
		return nil, errors.New("batch has no entries")
	}

	return &batch, nil
}

func (this *Ingester) emit(entry ingesterEntry) {

	lvl := ParseLevel(string(entry.Level))

	var line strings.Builder

	if this.Options.Tag != "" {
		line.WriteString(this.Options.Tag)
		line.WriteByte(' ')
	}

	line.WriteString(strings.ToUpper(string(lvl)))
	line.WriteString(": ")
	line.WriteString(string(entry.Text))

	if entry.Source != "" {
		line.WriteString(" (")
		line.WriteString(string(entry.Source))
		line.WriteString(")")
	}

	message := line.String()
	if this.Options.Colors {
		message = colorize(lvl, message)
	}

	switch lvl {
	case LevelError:
		this.Logger.Error(message)
	case LevelWarn:
		this.Logger.Warn(message)
	default:
		this.Logger.Info(message)
	}
}

func parseXff(req *http.Request) string {
	if xff := req.Header.Get("x-forwarded-for"); xff != "" {
		return xff
	} else if host, _, _ := net.SplitHostPort(req.RemoteAddr); host != "" {
		return host
	}
	return req.RemoteAddr
}

type ingesterBatch struct {
	SessionID string            `json:"sessionId"`
	Entries   []json.RawMessage `json:"entries"`
}

type ingesterEntry struct {
	Level  lenientString `json:"level"`
	Text   lenientString `json:"text"`
	Source lenientString `json:"source"`
}

//	lenientString accepts any json value: strings are taken as is, null becomes empty and everything else keeps its json text
type lenientString string

func (this *lenientString) UnmarshalJSON(data []byte) error {

	trimmed := strings.TrimSpace(string(data))

	switch {
	case trimmed == "null":
		*this = ""
	case strings.HasPrefix(trimmed, `"`):
		var val string
		if err := json.Unmarshal(data, &val); err != nil {
			return err
		}
		*this = lenientString(val)
	default:
		*this = lenientString(trimmed)
	}

	return nil
}
