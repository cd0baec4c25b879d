package observability

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. An empty file path logs to stderr;
// otherwise output goes to a size-rotated file.
func NewLogger(level, file string, maxSizeMB, maxBackups int) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.JSONFormatter{})

	if file == "" {
		log.SetOutput(os.Stderr)
		return log
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	})
	return log
}
