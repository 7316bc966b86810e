package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

type LogLevel int

const (
	LogLevelError   LogLevel = 0
	LogLevelWarning LogLevel = 1
	LogLevelInfo    LogLevel = 2
	LogLevelDebug   LogLevel = 3
)

var logLevel = LogLevelError

var levelPrefixes = map[LogLevel]string{
	LogLevelError:   "[ERROR]",
	LogLevelWarning: "[WARN]",
	LogLevelInfo:    "[INFO]",
	LogLevelDebug:   "[DEBUG]",
}

func SetLogLevel(newLevel int) {
	logLevel = LogLevel(newLevel)
}

// SetLogFile mirrors all log output to the given file in addition to stdout.
func SetLogFile(logFile io.Writer) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
}

// SetLogFileOnly sends log output only to the given file.
func SetLogFileOnly(logFile io.Writer) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetOutput(logFile)
}

func logf(level LogLevel, format string, args ...interface{}) {
	if logLevel >= level {
		log.Printf(fmt.Sprintf("%s %s", levelPrefixes[level], format), args...)
	}
}

func logln(level LogLevel, args ...interface{}) {
	if logLevel >= level {
		log.Println(append([]interface{}{levelPrefixes[level]}, args...)...)
	}
}

func Fatal(args ...interface{}) {
	log.Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

func Errorf(format string, args ...interface{}) { logf(LogLevelError, format, args...) }
func Warnf(format string, args ...interface{})  { logf(LogLevelWarning, format, args...) }
func Infof(format string, args ...interface{})  { logf(LogLevelInfo, format, args...) }
func Debugf(format string, args ...interface{}) { logf(LogLevelDebug, format, args...) }

func Errorln(args ...interface{}) { logln(LogLevelError, args...) }
func Warnln(args ...interface{})  { logln(LogLevelWarning, args...) }
func Infoln(args ...interface{})  { logln(LogLevelInfo, args...) }
func Debugln(args ...interface{}) { logln(LogLevelDebug, args...) }

func SetupTestLogs() {
	logLevel = LogLevelDebug
}
