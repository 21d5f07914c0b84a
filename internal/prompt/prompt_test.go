package prompt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseVideoReply(t *testing.T) {
	got, err := ParseVideoReply("A|B|C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := VideoReply{Title: "A", URL: "B", Description: "C"}
	if got != want {
		t.Fatalf("ParseVideoReply() = %+v, want %+v", got, want)
	}
}

func TestParseReplyShort(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) error
		input string
		want  int
		got   int
	}{
		{
			name:  "video-single-segment",
			parse: func(s string) error { _, err := ParseVideoReply(s); return err },
			input: "A",
			want:  3,
			got:   1,
		},
		{
			name:  "user-two-segments",
			parse: func(s string) error { _, err := ParseUserReply(s); return err },
			input: "Ana|ana@mail.com",
			want:  3,
			got:   2,
		},
		{
			name:  "challenge-empty",
			parse: func(s string) error { _, err := ParseChallengeReply(s); return err },
			input: "",
			want:  2,
			got:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.input)
			if !errors.Is(err, ErrMalformedReply) {
				t.Fatalf("expected ErrMalformedReply, got %v", err)
			}
			var replyErr *ReplyError
			if !errors.As(err, &replyErr) {
				t.Fatalf("expected *ReplyError, got %T", err)
			}
			if replyErr.Want != tt.want || replyErr.Got != tt.got || replyErr.Raw != tt.input {
				t.Fatalf("ReplyError = %+v", replyErr)
			}
		})
	}
}

func TestParseReplyTrimsAndIgnoresExtra(t *testing.T) {
	user, err := ParseUserReply("  Ana Perez | ana_1@mail.com |secret99 | trailing | more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != (UserReply{Name: "Ana Perez", Email: "ana_1@mail.com", Password: "secret99"}) {
		t.Fatalf("ParseUserReply() = %+v", user)
	}

	challenge, err := ParseChallengeReply("Climb|Reach the top | extra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if challenge.Title != "Climb" || challenge.Description != "Reach the top" {
		t.Fatalf("ParseChallengeReply() = %+v", challenge)
	}
}

// A delimiter inside a field shifts positions; the parser does not guess.
func TestParseReplyDelimiterInsideField(t *testing.T) {
	got, err := ParseVideoReply("Title|http://x|part one|part two")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Description != "part one" {
		t.Fatalf("Description = %q, want %q", got.Description, "part one")
	}
}

func TestUserPromptEmbedsTimestamp(t *testing.T) {
	now := time.Date(2024, 9, 7, 13, 5, 9, 0, time.UTC)
	p := UserPrompt(now)
	if !strings.Contains(p, "correo_20240907130509@mail.com") {
		t.Fatalf("prompt missing timestamp email: %q", p)
	}
	if strings.Contains(p, "{{") {
		t.Fatalf("prompt has unrendered variables: %q", p)
	}
}

func TestRenderWithoutTimestamp(t *testing.T) {
	if got := Render("a{{timestamp}}b{{delimiter}}c", Vars{}); got != "ab|c" {
		t.Fatalf("Render() = %q", got)
	}
	for _, p := range []string{ChallengePrompt(), VideoPrompt()} {
		if strings.Contains(p, "{{") || !strings.Contains(p, Delimiter) {
			t.Fatalf("bad prompt: %q", p)
		}
	}
}
