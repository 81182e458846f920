package logger

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Logger is a subsystem logger backed by a Backend. All messages are tagged
// with the subsystem tag and filtered by the logger's current level.
type Logger struct {
	levelValue uint32 // atomic; holds a Level
	tag        string
	b          *Backend
	writeChan  chan<- logEntry
}

// Trace formats a message using the default formats for its operands
// and writes it at level trace.
func (l *Logger) Trace(args ...interface{}) {
	l.print(LevelTrace, args...)
}

// Tracef formats a message according to a format specifier and writes it
// at level trace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.printf(LevelTrace, format, args...)
}

// Debug formats a message using the default formats for its operands
// and writes it at level debug.
func (l *Logger) Debug(args ...interface{}) {
	l.print(LevelDebug, args...)
}

// Debugf formats a message according to a format specifier and writes it
// at level debug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(LevelDebug, format, args...)
}

// Info formats a message using the default formats for its operands
// and writes it at level info.
func (l *Logger) Info(args ...interface{}) {
	l.print(LevelInfo, args...)
}

// Infof formats a message according to a format specifier and writes it
// at level info.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(LevelInfo, format, args...)
}

// Warn formats a message using the default formats for its operands
// and writes it at level warn.
func (l *Logger) Warn(args ...interface{}) {
	l.print(LevelWarn, args...)
}

// Warnf formats a message according to a format specifier and writes it
// at level warn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.printf(LevelWarn, format, args...)
}

// Error formats a message using the default formats for its operands
// and writes it at level error.
func (l *Logger) Error(args ...interface{}) {
	l.print(LevelError, args...)
}

// Errorf formats a message according to a format specifier and writes it
// at level error.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(LevelError, format, args...)
}

// Critical formats a message using the default formats for its operands
// and writes it at level critical.
func (l *Logger) Critical(args ...interface{}) {
	l.print(LevelCritical, args...)
}

// Criticalf formats a message according to a format specifier and writes it
// at level critical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.printf(LevelCritical, format, args...)
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.levelValue))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(logLevel Level) {
	atomic.StoreUint32(&l.levelValue, uint32(logLevel))
}

// Backend returns the backend this logger writes to.
func (l *Logger) Backend() *Backend {
	return l.b
}

func (l *Logger) print(logLevel Level, args ...interface{}) {
	if logLevel < l.Level() {
		return
	}
	l.write(logLevel, fmt.Sprint(args...))
}

func (l *Logger) printf(logLevel Level, format string, args ...interface{}) {
	if logLevel < l.Level() {
		return
	}
	l.write(logLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) write(logLevel Level, message string) {
	if !l.b.IsRunning() {
		// The backend isn't draining the write channel yet, so writing
		// to it would deadlock. Fall back to stderr.
		fmt.Fprintf(os.Stderr, "%s [%s] %s: %s\n",
			time.Now().Format(messageTimestampFormat), logLevel, l.tag, message)
		return
	}
	formatted := fmt.Sprintf("%s [%s] %s: %s\n",
		time.Now().Format(messageTimestampFormat), logLevel, l.tag, message)
	l.writeChan <- logEntry{log: []byte(formatted), level: logLevel}
}

const messageTimestampFormat = "2006-01-02 15:04:05.000"

var (
	// BackendLog is the logging backend used to create all subsystem
	// loggers.
	BackendLog = NewBackend()

	subsystemLoggers     = make(map[string]*Logger)
	subsystemLoggersLock sync.Mutex
)

// RegisterSubSystem returns a logger for subsystemTag, creating it if it
// doesn't yet exist. It is meant to be called from a package-level `log.go`
// of every package that logs.
func RegisterSubSystem(subsystemTag string) *Logger {
	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	logger, ok := subsystemLoggers[subsystemTag]
	if !ok {
		logger = BackendLog.Logger(subsystemTag)
		subsystemLoggers[subsystemTag] = logger
	}
	return logger
}

// InitLog attaches log file and error log file to the backend log and starts
// it running.
func InitLog(logFile, errLogFile string) error {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return errors.Wrapf(err, "error adding log file %s as log rotator for level %s",
			logFile, LevelTrace)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return errors.Wrapf(err, "error adding log file %s as log rotator for level %s",
			errLogFile, LevelWarn)
	}
	err = BackendLog.AddLogWriter(os.Stdout, LevelInfo)
	if err != nil {
		return errors.Wrap(err, "error adding stdout to the logger")
	}
	return BackendLog.Run()
}

// SetLogLevel sets the logging level of the subsystem identified by
// subsystemTag.
func SetLogLevel(subsystemTag string, logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s", logLevel)
	}

	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	logger, ok := subsystemLoggers[subsystemTag]
	if !ok {
		return errors.Errorf("unknown subsystem %s", subsystemTag)
	}
	logger.SetLevel(level)
	return nil
}

// SetLogLevels sets the logging level of all registered subsystems.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s", logLevel)
	}

	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}

// SupportedSubsystems returns a sorted slice of the registered subsystem
// tags.
func SupportedSubsystems() []string {
	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	subsystems := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		subsystems = append(subsystems, tag)
	}
	sort.Strings(subsystems)
	return subsystems
}
