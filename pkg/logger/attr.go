package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func UserID(id string) slog.Attr {
	return nonEmpty("user_id", id)
}

func RequestID(id string) slog.Attr {
	return nonEmpty("request_id", id)
}

// SessionID records a checkout session id.
func SessionID(id string) slog.Attr {
	return nonEmpty("session_id", id)
}

// EventID records a provider webhook event id.
func EventID(id string) slog.Attr {
	return nonEmpty("event_id", id)
}

func EventType(eventType string) slog.Attr {
	return nonEmpty("event_type", eventType)
}

func Plan(plan string) slog.Attr {
	return nonEmpty("plan", plan)
}

// Kind records a generation kind.
func Kind(kind string) slog.Attr {
	return nonEmpty("kind", kind)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func nonEmpty(key, v string) slog.Attr {
	if v == "" {
		return slog.Attr{}
	}
	return slog.String(key, v)
}
