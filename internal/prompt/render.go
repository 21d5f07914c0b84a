// Package prompt builds the fixed generation prompts and parses the
// pipe-delimited replies.
//
// 지원하는 변수 형식:
//
//	{{timestamp}}   YYYYMMDDhhmmss, used to make generated emails unique
//	{{delimiter}}   the reply field separator
package prompt

import (
	"strings"
	"time"
)

const timestampLayout = "20060102150405"

const (
	userTemplate = `Return one random user record with a name, an email and a password, ` +
		`separated by "{{delimiter}}". Append this to the email: correo_{{timestamp}}@mail.com. ` +
		`Reply only with the string.`

	challengeTemplate = `Return one random record with a title and a long description of a fictional ` +
		`challenge separated by "{{delimiter}}". Reply only with the string, for example: ` +
		`<<challenge title>>{{delimiter}}<<description>>`

	videoTemplate = `Generate a fictional video record with a title, a URL and a description. ` +
		`The result must be separated by "{{delimiter}}" and be a single line of text. ` +
		`Example: <<video title>>{{delimiter}}<<video url>>{{delimiter}}<<description>>`
)

// Vars holds the values substituted into a template.
type Vars struct {
	Timestamp time.Time
}

// Render replaces the supported variables. Unset variables render as "".
func Render(body string, vars Vars) string {
	timestamp := ""
	if !vars.Timestamp.IsZero() {
		timestamp = vars.Timestamp.Format(timestampLayout)
	}
	return strings.NewReplacer(
		"{{timestamp}}", timestamp,
		"{{delimiter}}", Delimiter,
	).Replace(body)
}

// UserPrompt embeds now as a uniqueness token in the requested email.
func UserPrompt(now time.Time) string {
	return Render(userTemplate, Vars{Timestamp: now})
}

func ChallengePrompt() string {
	return Render(challengeTemplate, Vars{})
}

func VideoPrompt() string {
	return Render(videoTemplate, Vars{})
}
