package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
	}

	for _, tt := range tests {
		if got := tt.role.Label(); got != tt.want {
			t.Errorf("%s.Label() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestMessageClone(t *testing.T) {
	orig := Message{Role: RoleAssistant, Content: "x", Images: []string{"A", "B"}}
	clone := orig.Clone()
	clone.Images[0] = "changed"

	if orig.Images[0] != "A" {
		t.Errorf("Clone shares Images with the original: %v", orig.Images)
	}

	empty := Message{Role: RoleUser}.Clone()
	if empty.Images != nil {
		t.Errorf("Clone of nil Images should stay nil, got %v", empty.Images)
	}
}

func TestMessageIsError(t *testing.T) {
	if !(Message{Role: RoleAssistant, Content: ErrorLiteral}).IsError() {
		t.Error("assistant message with the error literal should be an error")
	}
	if (Message{Role: RoleUser, Content: ErrorLiteral}).IsError() {
		t.Error("user messages are never error replies")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 7, 30, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "09:07" {
		t.Errorf("FormatTimestamp() = %q, want %q", got, "09:07")
	}
}

func TestChatRequestJSON(t *testing.T) {
	t.Run("no image encodes null", func(t *testing.T) {
		data, err := json.Marshal(ChatRequest{Query: "hello", ThreadID: "t1"})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		want := `{"query":"hello","image":null,"thread_id":"t1"}`
		if string(data) != want {
			t.Errorf("Marshal() = %s, want %s", data, want)
		}
	})

	t.Run("image is a string", func(t *testing.T) {
		img := "data:image/png;base64,AAAA"
		data, err := json.Marshal(ChatRequest{Query: "", Image: &img, ThreadID: "t1"})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		want := `{"query":"","image":"data:image/png;base64,AAAA","thread_id":"t1"}`
		if string(data) != want {
			t.Errorf("Marshal() = %s, want %s", data, want)
		}
	})
}

func TestReplyHasImages(t *testing.T) {
	var nilReply *Reply
	if nilReply.HasImages() {
		t.Error("nil reply has no images")
	}
	if (&Reply{Text: "hi"}).HasImages() {
		t.Error("reply without images reported images")
	}
	if !(&Reply{Images: []string{"A"}}).HasImages() {
		t.Error("reply with images reported none")
	}
}
