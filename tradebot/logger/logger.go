package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeTrade   LogType = "TRD"
	TypePack    LogType = "PACK"
	TypeNotify  LogType = "DM"
	TypeError   LogType = "ERR"
)

var logTypes = map[string]LogType{
	"cmd":       TypeCommand,
	"component": TypeCommand,
	"db":        TypeDB,
	"sys":       TypeSystem,
	"trade":     TypeTrade,
	"pack":      TypePack,
	"notify":    TypeNotify,
	"error":     TypeError,
}

var typeColors = map[LogType]string{
	TypeTrade:  colorCyan,
	TypePack:   colorBlue,
	TypeNotify: colorPurple,
	TypeError:  colorRed,
}

// CustomHandler prints one colored line per record:
//
//	[CardTrade] [15:04:05] [INFO] [TRD] Trade transitioned [Status: completed] trade_id=...
type CustomHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     slog.Leveler
	addSource bool
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

type Options struct {
	Level     slog.Leveler
	AddSource bool
	Writer    io.Writer
}

func NewHandler(opts Options) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelDebug
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	return &CustomHandler{
		mu:        &sync.Mutex{},
		out:       opts.Writer,
		level:     opts.Level,
		addSource: opts.AddSource,
		startTime: time.Now(),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &c
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	fields := collect(&r, h.attrs)

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	logType := TypeSystem
	if t, ok := logTypes[fields.special["type"]]; ok {
		logType = t
	}
	typeColor := colorWhite
	if c, ok := typeColors[logType]; ok {
		typeColor = c
	}

	message := r.Message
	if r.Level >= slog.LevelError {
		location := fields.special["error_location"]
		if location == "" && h.addSource {
			location = sourceLocation(r.PC)
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if details := fields.special["error"]; details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}
	if cmd, user := fields.special["name"], fields.special["user_name"]; cmd != "" && user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, cmd, user)
	}
	if status := fields.special["status"]; status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s[CardTrade] [%s] [%s%s%s] [%s%s%s] %s",
		colorWhite,
		time.Now().Format("15:04:05"),
		levelColor, levelText, colorWhite,
		typeColor, logType, colorWhite,
		message,
	)
	prefix := strings.Join(h.groups, ".")
	for i, kv := range fields.plain {
		key := kv[0]
		if prefix != "" && i >= fields.inherited {
			key = prefix + "." + key
		}
		fmt.Fprintf(&b, " %s=%s", key, kv[1])
	}
	b.WriteString(colorReset)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// Keys the handler renders into the message instead of as key=value pairs.
var specialKeys = map[string]struct{}{
	"type":           {},
	"name":           {},
	"user_name":      {},
	"status":         {},
	"error":          {},
	"error_location": {},
}

type recordFields struct {
	special map[string]string
	plain   [][2]string
	// plain[:inherited] came from WithAttrs.
	inherited int
}

func collect(r *slog.Record, handlerAttrs []slog.Attr) recordFields {
	f := recordFields{special: make(map[string]string)}
	add := func(a slog.Attr) bool {
		v := a.Value.Resolve().String()
		if _, ok := specialKeys[a.Key]; ok {
			if _, set := f.special[a.Key]; !set {
				f.special[a.Key] = v
			}
			return true
		}
		f.plain = append(f.plain, [2]string{a.Key, v})
		return true
	}
	for _, a := range handlerAttrs {
		add(a)
	}
	f.inherited = len(f.plain)
	r.Attrs(add)
	return f
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

// Gateway chatter from disgo that drowns out everything else at debug level.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}
