package services

import (
	"fmt"
	"strings"
)

var (
	PostTones   = []string{"Formal", "Casual", "Humorous"}
	Lengths     = []string{"Short", "Medium", "Long"}
	StoryGenres = []string{"Fantasy", "Mystery", "Sci-Fi"}
)

type PostOptions struct {
	Topic  string `json:"topic"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

type StoryOptions struct {
	Genre      string `json:"genre"`
	Characters string `json:"characters"`
	Plot       string `json:"plot"`
	Length     string `json:"length"`
}

// Normalize trims the free text and canonicalizes the choices, case-insensitively.
func (o *PostOptions) Normalize() error {
	o.Topic = strings.TrimSpace(o.Topic)
	if o.Topic == "" {
		return invalidf("topic is required")
	}
	var ok bool
	if o.Tone, ok = pick(PostTones, o.Tone); !ok {
		return invalidf("tone must be one of %s", strings.Join(PostTones, ", "))
	}
	if o.Length, ok = pick(Lengths, o.Length); !ok {
		return invalidf("length must be one of %s", strings.Join(Lengths, ", "))
	}
	return nil
}

func (o PostOptions) Prompt() string {
	return fmt.Sprintf("Create a %s post about %s. The length should be %s.",
		strings.ToLower(o.Tone), o.Topic, strings.ToLower(o.Length))
}

func (o *StoryOptions) Normalize() error {
	o.Characters = strings.TrimSpace(o.Characters)
	o.Plot = strings.TrimSpace(o.Plot)
	if o.Characters == "" || o.Plot == "" {
		return invalidf("characters and plot are required")
	}
	var ok bool
	if o.Genre, ok = pick(StoryGenres, o.Genre); !ok {
		return invalidf("genre must be one of %s", strings.Join(StoryGenres, ", "))
	}
	if o.Length, ok = pick(Lengths, o.Length); !ok {
		return invalidf("length must be one of %s", strings.Join(Lengths, ", "))
	}
	return nil
}

func (o StoryOptions) Prompt() string {
	return fmt.Sprintf("Generate a %s %s story featuring %s. Plot elements: %s",
		strings.ToLower(o.Length), strings.ToLower(o.Genre), o.Characters, o.Plot)
}

func pick(choices []string, v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, c := range choices {
		if strings.EqualFold(c, v) {
			return c, true
		}
	}
	return "", false
}
