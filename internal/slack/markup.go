package slack

import "strings"

// specialMentions are the only <!...> tokens that resolve to a mention.
// Any other <!...> token resolves to nothing at all.
var specialMentions = map[string]struct{}{
	"channel":  {},
	"group":    {},
	"everyone": {},
}

// Resolver turns raw Slack markup into plain text. Bracket tokens of the
// shape <sigil?link(|label)?> with sigil @, # or ! (or none for URLs) are
// substituted via directory lookups; HTML entities are unescaped as the
// final pass. The resolver never mutates the directories.
type Resolver struct {
	users UserDirectory
	rooms RoomDirectory
}

// NewResolver creates a resolver over the given directories.
func NewResolver(users UserDirectory, rooms RoomDirectory) *Resolver {
	return &Resolver{users: users, rooms: rooms}
}

// Resolve replaces every bracket token in raw and unescapes entities.
// Texts without tokens come back unchanged modulo entity unescaping.
func (r *Resolver) Resolve(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		if raw[i] != '<' {
			b.WriteByte(raw[i])
			i++
			continue
		}
		end := strings.IndexByte(raw[i+1:], '>')
		if end < 0 {
			b.WriteString(raw[i:])
			break
		}
		replacement, ok := r.resolveToken(raw[i+1 : i+1+end])
		if !ok {
			// Not a well-formed token; emit the bracket literally and keep
			// scanning so inner tokens still resolve.
			b.WriteByte('<')
			i++
			continue
		}
		b.WriteString(replacement)
		i += end + 2
	}
	return unescapeEntities(b.String())
}

// ResolveMessage resolves a message's primary text plus the text (or
// fallback) of each attachment, joined as extra lines after the primary
// text. Attachments with neither field are skipped.
func (r *Resolver) ResolveMessage(text string, attachments []Attachment) string {
	var lines []string
	if text != "" {
		lines = append(lines, text)
	}
	for _, a := range attachments {
		switch {
		case a.Text != "":
			lines = append(lines, a.Text)
		case a.Fallback != "":
			lines = append(lines, a.Fallback)
		}
	}
	return r.Resolve(strings.Join(lines, "\n"))
}

// resolveToken handles the body of one <...> token. The second return is
// false when the body is not a valid token and must stay literal.
func (r *Resolver) resolveToken(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	var sigil byte
	rest := body
	if (body[0] == '@' || body[0] == '#' || body[0] == '!') && len(body) > 1 {
		sigil = body[0]
		rest = body[1:]
	}
	link := rest
	var label string
	if idx := strings.IndexByte(rest, '|'); idx >= 0 {
		link, label = rest[:idx], rest[idx+1:]
		if link == "" || label == "" {
			return "", false
		}
	}

	switch sigil {
	case '@':
		// An explicit label always wins over the directory lookup.
		if label != "" {
			return label, true
		}
		if u, ok := r.users.FindUserByID(link); ok {
			return "@" + u.Name, true
		}
		return "@" + link, true
	case '#':
		if label != "" {
			return label, true
		}
		if room, ok := r.rooms.FindRoomByID(link); ok {
			return "#" + room.Name, true
		}
		return "#" + link, true
	case '!':
		if _, ok := specialMentions[link]; ok {
			return "@" + link, true
		}
		// Unknown special mentions drop the token text entirely.
		return "", true
	default:
		link = strings.TrimPrefix(link, "mailto:")
		if label == "" {
			return link, true
		}
		if strings.Contains(label, link) {
			return label, true
		}
		return label + " (" + link + ")", true
	}
}

// unescapeEntities runs after token replacement; unescaping first would
// corrupt bracket scanning with nested angle brackets. The order is fixed.
func unescapeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}
