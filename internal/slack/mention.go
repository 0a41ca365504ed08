package slack

import (
	"regexp"
	"strings"
)

// Addressed reports whether raw message text addresses the bot. Users
// address bots inconsistently, so three strategies are tried in order,
// short-circuiting on the first match:
//
//  1. the exact platform mention token <@botID>
//  2. case-insensitive @mentionName anywhere in the text
//  3. case-insensitive whole-word mentionName without the @ sigil
//
// With an empty mention name only the first check applies. Absent text is
// never addressed.
func Addressed(text string, identity BotIdentity) bool {
	if text == "" {
		return false
	}
	if strings.Contains(text, "<@"+identity.ID+">") {
		return true
	}
	if identity.MentionName == "" {
		return false
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "@"+strings.ToLower(identity.MentionName)) {
		return true
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(identity.MentionName) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
