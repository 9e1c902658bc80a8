package log

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss"
)

var levelStyles = map[log.Level]lipgloss.Style{
	log.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	log.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	log.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	log.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// InitLogger sets up Apex with a custom handler and a log level from the
// GENAI_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("GENAI_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&CustomHandler{Plain: os.Getenv("NO_COLOR") != ""})
	log.SetLevelFromString(level)
}

// CustomHandler formats log messages and writes to stderr. Plain disables
// level colors.
type CustomHandler struct {
	Plain bool
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())[:1]
	if !h.Plain {
		if style, ok := levelStyles[e.Level]; ok {
			level = style.Render(level)
		}
	}
	fmt.Fprintf(os.Stderr, "%s %s %s%s\n", timestamp, level, e.Message, formatFields(e))
	return nil
}

func formatFields(e *log.Entry) string {
	if len(e.Fields) == 0 {
		return ""
	}
	names := e.Fields.Names()
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, " %s=%v", name, e.Fields.Get(name))
	}
	return sb.String()
}
