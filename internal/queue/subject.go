package queue

import (
	"strings"
)

// wildcard is the trailing token matching every key of a stream
const wildcard = ">"

// SubjectToken turns an arbitrary id into a single subject token
func SubjectToken(id string) string {
	if id == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r == '.', r == '*', r == '>', r <= ' ', r == 0x7f:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// JoinSubject builds "<stream>.<key>"
func JoinSubject(stream, key string) string {
	return stream + "." + SubjectToken(key)
}

// splitSubject separates a subject into stream and key. A subject without a
// dot is a stream with an empty key.
func splitSubject(subject string) (stream, key string) {
	i := strings.LastIndexByte(subject, '.')
	if i < 0 {
		return subject, ""
	}
	return subject[:i], subject[i+1:]
}

// isWildcard reports whether subject is a "<stream>.>" pattern
func isWildcard(subject string) bool {
	_, key := splitSubject(subject)
	return key == wildcard
}

// matchSubject reports whether subject is addressed by pattern
func matchSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}
	stream, key := splitSubject(pattern)
	if key != wildcard {
		return false
	}
	return strings.HasPrefix(subject, stream+".")
}

// sanitizeName replaces characters not allowed in consumer and stream names.
// Names can only contain: A-Z, a-z, 0-9, dash (-) and underscore (_)
func sanitizeName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
