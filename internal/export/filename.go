package export

import (
	"strings"
	"time"
)

// FileName builds chat-<name>-<date>.<ext>, keeping only lowercase ASCII
// letters and digits of the session name
func FileName(sessionName, ext string, day time.Time) string {
	var b strings.Builder
	for _, r := range strings.ToLower(sessionName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "untitled"
	}
	return "chat-" + name + "-" + day.Format("2006-01-02") + "." + ext
}
