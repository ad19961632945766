package logger

import (
	"fmt"
	"strings"
)

// Leveled adapts a Logger to the key/value style interface used by HTTP
// client libraries (retryablehttp.LeveledLogger).
type Leveled struct {
	L *Logger
}

// NewLeveled wraps l, or the default logger when l is nil.
func NewLeveled(l *Logger) Leveled {
	if l == nil {
		l = Default
	}
	return Leveled{L: l}
}

func (a Leveled) Error(msg string, keysAndValues ...interface{}) {
	a.L.log(LevelError, "%s", joinKV(msg, keysAndValues))
}

func (a Leveled) Warn(msg string, keysAndValues ...interface{}) {
	a.L.log(LevelWarn, "%s", joinKV(msg, keysAndValues))
}

func (a Leveled) Info(msg string, keysAndValues ...interface{}) {
	a.L.log(LevelInfo, "%s", joinKV(msg, keysAndValues))
}

func (a Leveled) Debug(msg string, keysAndValues ...interface{}) {
	a.L.log(LevelDebug, "%s", joinKV(msg, keysAndValues))
}

// joinKV renders "msg key=value key=value". A trailing key without a value is
// printed as key=<missing>.
func joinKV(msg string, kv []interface{}) string {
	if len(kv) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v=<missing>", kv[i])
		}
	}
	return b.String()
}
