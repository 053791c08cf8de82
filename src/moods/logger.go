package moods

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel is the minimum severity that gets written.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelLabels = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LogLevel(%d)", int32(l))
	}
	return levelLabels[l]
}

// ParseLogLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	currentLevel = int32(LevelInfo)
	logSink      atomic.Pointer[log.Logger]
)

func init() { SetOutput(os.Stderr) }

// SetOutput redirects all log lines to w.
func SetOutput(w io.Writer) {
	logSink.Store(log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds))
}

// SetLogLevel sets the global level by name. Unknown names leave it unchanged.
func SetLogLevel(s string) {
	if l, err := ParseLogLevel(s); err == nil {
		atomic.StoreInt32(&currentLevel, int32(l))
	}
}

func GetLogLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

func logf(l LogLevel, format string, args ...interface{}) {
	if GetLogLevel() > l {
		return
	}
	msg := format
	// without args the text is already final; a literal % must survive
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	logSink.Load().Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs how long a phase ran, at debug level. Use with defer.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
}
