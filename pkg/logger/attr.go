package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Error records a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records a webhook or domain event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Owner records the billed entity under the key "owner".
// Owner keys render as "kind:id".
func Owner(owner fmt.Stringer) slog.Attr {
	if owner == nil {
		return slog.Attr{}
	}
	return slog.String("owner", owner.String())
}

// SubscriptionCode records a Paystack subscription code.
func SubscriptionCode(code string) slog.Attr {
	if code == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_code", code)
}

// CustomerCode records a Paystack customer code.
func CustomerCode(code string) slog.Attr {
	if code == "" {
		return slog.Attr{}
	}
	return slog.String("customer_code", code)
}

// Plan records a Paystack plan code.
func Plan(code string) slog.Attr {
	if code == "" {
		return slog.Attr{}
	}
	return slog.String("plan", code)
}

// FailedEventID records the id of a stored failed webhook delivery.
func FailedEventID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("failed_event_id", id)
}

func Attempts(n int) slog.Attr {
	return slog.Int("attempts", n)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
