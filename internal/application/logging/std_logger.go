package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// StdLogger writes through the standard library logger in json or text format
type StdLogger struct {
	out    *log.Logger
	min    int
	format string
	now    func() time.Time
}

// NewStdLogger creates a logger writing to w.
// level is one of debug, info, warn, error; format is json or text.
func NewStdLogger(w io.Writer, level, format string) (*StdLogger, error) {
	rank, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		return nil, fmt.Errorf("unknown log level: %s", level)
	}
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
	return &StdLogger{
		out:    log.New(w, "", 0),
		min:    rank,
		format: format,
		now:    time.Now,
	}, nil
}

// Log writes one line if the level passes the configured threshold
func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank[LevelInfo]
	}
	if rank < l.min {
		return
	}

	ts := l.now().UTC().Format(time.RFC3339)
	if l.format == "json" {
		entry := make(map[string]interface{}, len(metadata)+3)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["time"] = ts
		entry["level"] = level
		entry["msg"] = message
		line, err := json.Marshal(entry)
		if err != nil {
			l.out.Printf("%s %s %s (metadata not encodable: %v)", ts, level, message, err)
			return
		}
		l.out.Print(string(line))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", ts, level, message)
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	l.out.Print(b.String())
}
