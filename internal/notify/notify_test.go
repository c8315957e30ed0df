package notify

import (
	"strings"
	"testing"
)

func TestBuildMessageSuccess(t *testing.T) {
	msg := string(BuildMessage("noreply@example.com", "admin@example.com", true))
	if !strings.Contains(msg, "From: noreply@example.com\r\n") {
		t.Fatalf("from header: %q", msg)
	}
	if !strings.Contains(msg, "To: admin@example.com\r\n") {
		t.Fatalf("to header: %q", msg)
	}
	if !strings.Contains(msg, "Subject: ThingsBoard Installation Status\r\n") {
		t.Fatalf("subject header: %q", msg)
	}
	if !strings.Contains(msg, "completed with status: SUCCESS") {
		t.Fatalf("body: %q", msg)
	}
}

func TestBuildMessageFailure(t *testing.T) {
	msg := string(BuildMessage("a@example.com", "b@example.com", false))
	if !strings.Contains(msg, "completed with status: FAILURE") {
		t.Fatalf("body: %q", msg)
	}
	if strings.Contains(msg, "SUCCESS") {
		t.Fatalf("failure message must not claim success: %q", msg)
	}
}

func TestBuildMessageSeparatesHeadersFromBody(t *testing.T) {
	msg := string(BuildMessage("a@example.com", "b@example.com", true))
	if !strings.Contains(msg, "\r\n\r\n") {
		t.Fatalf("missing header/body separator: %q", msg)
	}
}
