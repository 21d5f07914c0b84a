package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates fields in a generated reply. A field that itself
// contains the delimiter shifts every following field.
const Delimiter = "|"

var ErrMalformedReply = errors.New("malformed reply")

// ReplyError reports a reply with fewer segments than required fields.
type ReplyError struct {
	Raw  string
	Want int
	Got  int
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("%s: want %d fields, got %d", ErrMalformedReply, e.Want, e.Got)
}

func (e *ReplyError) Unwrap() error {
	return ErrMalformedReply
}

type UserReply struct {
	Name     string
	Email    string
	Password string
}

type ChallengeReply struct {
	Title       string
	Description string
}

type VideoReply struct {
	Title       string
	URL         string
	Description string
}

// split returns exactly want trimmed segments. Extra segments are dropped.
func split(raw string, want int) ([]string, error) {
	parts := strings.Split(raw, Delimiter)
	if len(parts) < want {
		return nil, &ReplyError{Raw: raw, Want: want, Got: len(parts)}
	}
	out := make([]string, want)
	for i := range out {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out, nil
}

func ParseUserReply(raw string) (UserReply, error) {
	f, err := split(raw, 3)
	if err != nil {
		return UserReply{}, err
	}
	return UserReply{Name: f[0], Email: f[1], Password: f[2]}, nil
}

func ParseChallengeReply(raw string) (ChallengeReply, error) {
	f, err := split(raw, 2)
	if err != nil {
		return ChallengeReply{}, err
	}
	return ChallengeReply{Title: f[0], Description: f[1]}, nil
}

func ParseVideoReply(raw string) (VideoReply, error) {
	f, err := split(raw, 3)
	if err != nil {
		return VideoReply{}, err
	}
	return VideoReply{Title: f[0], URL: f[1], Description: f[2]}, nil
}
