package topic

import "strings"

// Topic represents a hierarchical notification name using dot notation.
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the parent topic by removing the last segment.
//
// Example: "editable.vertex.deleted" -> "editable.vertex"
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Child returns a child topic by appending a segment.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// Base returns the last segment of the topic.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// IsWildcard returns true if the topic contains any wildcard characters.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid returns true if the topic is non-empty and has no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches returns true if this topic matches the given pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	ti, pi := 0, 0

	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ti <= len(topic) {
				if matchSegments(topic[ti:], pattern[pi+1:]) {
					return true
				}
				ti++
			}
			return false
		}

		if ti >= len(topic) {
			return false
		}

		if pattern[pi] != WildcardSingle && pattern[pi] != topic[ti] {
			return false
		}
		ti++
		pi++
	}

	return ti == len(topic)
}

// Join joins multiple segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
