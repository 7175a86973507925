package topic

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"editable.vertex.deleted", "editable.vertex.deleted", true},
		{"editable.vertex.deleted", "editable.vertex.*", true},
		{"editable.vertex.deleted", "editable.*", false},
		{"editable.vertex.deleted", "editable.**", true},
		{"editable.created", "editable.**", true},
		{"editable", "editable.**", true},
		{"editable.created", "*.created", true},
		{"editable.drawing.start", "editable.drawing.end", false},
		{"editable.drawing.start", "**", true},
		{"editable.drawing", "editable.drawing.*", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestTopicParts(t *testing.T) {
	tp := Topic("editable.vertex.deleted")

	if got := tp.Parent(); got != "editable.vertex" {
		t.Errorf("Parent() = %q", got)
	}
	if got := tp.Base(); got != "deleted" {
		t.Errorf("Base() = %q", got)
	}
	if got := Topic("editable").Child("created"); got != "editable.created" {
		t.Errorf("Child() = %q", got)
	}
	if got := Join("a", "b", "c"); got != "a.b.c" {
		t.Errorf("Join() = %q", got)
	}
	if Topic("").Parent() != "" || Topic("root").Parent() != "" {
		t.Error("Parent() of a single segment should be empty")
	}
}

func TestTopicIsValid(t *testing.T) {
	valid := []Topic{"a", "a.b", "editable.vertex.*"}
	invalid := []Topic{"", ".a", "a.", "a..b"}

	for _, tp := range valid {
		if !tp.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", tp)
		}
	}
	for _, tp := range invalid {
		if tp.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", tp)
		}
	}
	if !Topic("a.*").IsWildcard() || Topic("a.b").IsWildcard() {
		t.Error("IsWildcard mismatch")
	}
}
