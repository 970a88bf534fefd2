package components

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abcfe/avax-types/internal/monitor/styles"
)

// LogViewer tails the rotated zap log of the selected service.
type LogViewer struct {
	prefixes    []string
	index       int
	lines       []LogLine
	maxLines    int
	lastModTime time.Time
	now         func() time.Time
}

type LogLine struct {
	Time    string
	Level   string
	Message string
}

// NewLogViewer takes one log path prefix per service, the same value as
// log_info.path in that service's config. A single prefix is shared.
func NewLogViewer(prefixes []string, maxLines int) *LogViewer {
	return &LogViewer{
		prefixes: prefixes,
		maxLines: maxLines,
		now:      time.Now,
	}
}

func (lv *LogViewer) SetService(index int) {
	lv.index = index
	lv.lines = nil
	lv.lastModTime = time.Time{}
}

// LogPath mirrors the file name the logger opens for today.
func (lv *LogViewer) LogPath() string {
	if len(lv.prefixes) == 0 {
		return ""
	}
	prefix := lv.prefixes[0]
	if lv.index < len(lv.prefixes) {
		prefix = lv.prefixes[lv.index]
	}
	return fmt.Sprintf("%s_%s.log", prefix, lv.now().Format("2006-01-02"))
}

func (lv *LogViewer) Refresh() error {
	logPath := lv.LogPath()

	info, err := os.Stat(logPath)
	if err != nil {
		lv.lines = []LogLine{{Level: "INFO", Message: fmt.Sprintf("no log file: %s", logPath)}}
		return nil
	}
	if info.ModTime().Equal(lv.lastModTime) {
		return nil
	}
	lv.lastModTime = info.ModTime()

	file, err := os.Open(logPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var all []LogLine
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		all = append(all, ParseLine(scanner.Text()))
		if len(all) > lv.maxLines {
			all = all[1:]
		}
	}
	lv.lines = all
	return scanner.Err()
}

// ParseLine reads one JSON line written by common/logger. Lines that are
// not JSON are shown raw.
func ParseLine(line string) LogLine {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return LogLine{Level: "INFO", Message: truncate(line, 80)}
	}

	result := LogLine{Level: "INFO"}
	if lvl, ok := fields["level"].(string); ok {
		result.Level = lvl
	}
	if date, ok := fields["date"].(string); ok {
		result.Time = date
		for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339} {
			if t, err := time.Parse(layout, date); err == nil {
				result.Time = t.Format("15:04:05")
				break
			}
		}
	}

	for _, k := range []string{"Info", "Debug", "Warn", "Err", "Crit"} {
		if msg, ok := fields[k].(string); ok {
			result.Message = msg
			return result
		}
	}
	if msg, ok := fields["msg"].(string); ok {
		result.Message = msg
	}
	return result
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func (lv *LogViewer) Lines() []LogLine {
	return lv.lines
}

func (lv *LogViewer) Render(width int) string {
	var b strings.Builder

	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("LOGS [service %d]", lv.index+1)))
	b.WriteString("\n")

	if len(lv.lines) == 0 {
		b.WriteString(styles.MutedStyle.Render("  no log lines"))
		return b.String()
	}

	maxMsgLen := width - 20
	if maxMsgLen < 20 {
		maxMsgLen = 20
	}
	for _, line := range lv.lines {
		timeStr := line.Time
		if timeStr == "" {
			timeStr = "        "
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			styles.MutedStyle.Render(timeStr),
			styles.LogLevelStyle(line.Level).Render(fmt.Sprintf("%-5s", line.Level)),
			truncate(line.Message, maxMsgLen)))
	}
	return b.String()
}
