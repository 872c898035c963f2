package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type customFormatter struct {
	logrus.TextFormatter
}

func (f *customFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("[%s][%s] \t%s\n", entry.Time.Format(f.TimestampFormat), strings.ToUpper(entry.Level.String()), entry.Message)), nil
}

func InitLogger(isVerbose, isDebug bool, logPath string) {
	logrus.SetFormatter(&customFormatter{logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05",
		ForceColors:            true,
		DisableLevelTruncation: true,
	}})

	logrus.SetLevel(logrus.InfoLevel)
	if isVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if isDebug {
		logrus.SetOutput(os.Stdout)
		logrus.SetLevel(logrus.TraceLevel)
		logrus.SetReportCaller(true)
		return
	}

	if logPath == "" {
		logrus.SetOutput(os.Stdout)
		return
	}

	f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		fmt.Printf("Failed to create logsfile: %s\n", logPath)
		panic(err)
	}
	logrus.SetOutput(io.MultiWriter(f, os.Stdout))
}

// ScenarioLogger prefixes every line with the scenario name
type ScenarioLogger struct {
	name string
	log  logrus.FieldLogger
}

func NewScenarioLogger(name string) *ScenarioLogger {
	return &ScenarioLogger{name: name, log: logrus.StandardLogger()}
}

func (l *ScenarioLogger) prefix(format string) string {
	return "[" + l.name + "] " + format
}

func (l *ScenarioLogger) Info(format string, args ...interface{}) {
	l.log.Infof(l.prefix(format), args...)
}

func (l *ScenarioLogger) Debug(format string, args ...interface{}) {
	l.log.Debugf(l.prefix(format), args...)
}

func (l *ScenarioLogger) Warn(format string, args ...interface{}) {
	l.log.Warnf(l.prefix(format), args...)
}

func (l *ScenarioLogger) Error(format string, args ...interface{}) {
	l.log.Errorf(l.prefix(format), args...)
}
