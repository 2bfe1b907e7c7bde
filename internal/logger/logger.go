// Package logger sets up the internal logrus logger and the access log writer
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	internalLogFile = "backoffice.log"
	accessLogFile   = "access.log"
	errorLogFile    = "errors.log"
)

// Conf configures a log destination
type Conf struct {
	Dir    string
	StdErr bool
}

// InternalConf configures the internal logger
type InternalConf struct {
	Conf
	Level string
	// SmartDir, if set, receives a copy of all error logs
	SmartDir string
}

// Init configures the standard logrus logger
func Init(conf InternalConf) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level := log.InfoLevel
	if conf.Level != "" {
		var err error
		level, err = log.ParseLevel(strings.ToLower(conf.Level))
		if err != nil {
			return errors.Wrapf(err, "logger: invalid log level '%s'", conf.Level)
		}
	}
	log.SetLevel(level)

	w, err := writer(conf.Conf, internalLogFile)
	if err != nil {
		return err
	}
	log.SetOutput(w)

	if conf.SmartDir != "" {
		f, err := openLogFile(conf.SmartDir, errorLogFile)
		if err != nil {
			return err
		}
		log.AddHook(&errorHook{out: f, formatter: &log.JSONFormatter{}})
	}
	return nil
}

// AccessLogWriter returns the writer the access log is written to
func AccessLogWriter(conf Conf) (io.Writer, error) {
	return writer(conf, accessLogFile)
}

func writer(conf Conf, fileName string) (io.Writer, error) {
	if conf.Dir == "" {
		return os.Stderr, nil
	}
	f, err := openLogFile(conf.Dir, fileName)
	if err != nil {
		return nil, err
	}
	if conf.StdErr {
		return io.MultiWriter(f, os.Stderr), nil
	}
	return f, nil
}

func openLogFile(dir, name string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	return f, errors.Wrap(err, "logger: could not open log file")
}

// errorHook duplicates error logs into a separate writer
type errorHook struct {
	out       io.Writer
	formatter log.Formatter
}

func (*errorHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}
}

func (h *errorHook) Fire(entry *log.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}
