// Package logging provides the per-site application logger. Each crawl
// writes to storage/logs/<site>/<date>_application.log and mirrors to
// stdout.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes emoji-prefixed log lines to a site log file and stdout.
type Logger struct {
	logger  *log.Logger
	htmlDir string
}

// New creates a logger for the named site. The log directory is created
// on demand; failure to set up the file falls back to stdout only.
func New(siteName string) *Logger {
	currentDate := time.Now().Format("2006-01-02")
	directory := filepath.Join("storage", "logs", siteName)

	var out io.Writer = os.Stdout
	if err := os.MkdirAll(directory, 0755); err == nil {
		logFilePath := filepath.Join(directory, currentDate+"_application.log")
		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err == nil {
			out = io.MultiWriter(file, os.Stdout)
		}
	}

	return &Logger{
		logger:  log.New(out, "⏱️ ", log.LstdFlags),
		htmlDir: filepath.Join(directory, "html"),
	}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Printf("📢 INFO: "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Printf("🛑 ERROR: "+format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logger.Fatalf("🚨 FATAL: "+format, args...)
}

func (l *Logger) Summary(format string, args ...interface{}) {
	l.logger.Printf("✅ SUMMARY: "+format, args...)
}

// Html logs an error and dumps the page snapshot next to the log file so
// failed extractions can be replayed against the real markup.
func (l *Logger) Html(html, url, msg string) {
	l.Error("%s: %s", msg, url)
	if l.htmlDir == "" || html == "" {
		return
	}
	if err := os.MkdirAll(l.htmlDir, 0755); err != nil {
		return
	}
	name := time.Now().Format("150405") + ".html"
	if err := os.WriteFile(filepath.Join(l.htmlDir, name), []byte(html), 0644); err != nil {
		l.logger.Printf("⚛️ HTML: %v", err)
	}
}
