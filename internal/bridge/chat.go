package bridge

import (
	"encoding/json"
	"strings"
	"unicode"
)

// formatPrefix starts an in-game formatting code such as §a or §l.
const formatPrefix = '§'

// Sanitize strips formatting codes and control characters from text.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	skip := false
	for _, r := range text {
		if skip {
			skip = false
			continue
		}
		if r == formatPrefix {
			skip = true
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ChatCommand builds the broadcast command for text.
func ChatCommand(text string) string {
	payload, _ := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: Sanitize(text)})
	return "tellraw @a " + string(payload)
}
