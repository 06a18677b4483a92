// Package placeholder recognises the URL slot inside the review message: a
// lead phrase, the URL enclosed by it, and a trailing delimiter.
package placeholder

import (
	"regexp"

	"reviewmsg/pkg/errors"
)

const (
	DefaultLead     = "こちらのURLから口コミも書いていただけると嬉しいです！（"
	DefaultTrailing = "）"
)

// Pattern matches lead + segment + trailing. The segment is non-greedy and
// does not cross line breaks.
type Pattern struct {
	lead     string
	trailing string
	re       *regexp.Regexp
}

func New(lead, trailing string) (*Pattern, error) {
	if lead == "" {
		return nil, errors.ValidationError("placeholder lead phrase must not be empty")
	}
	if trailing == "" {
		return nil, errors.ValidationError("placeholder trailing delimiter must not be empty")
	}
	re, err := regexp.Compile(regexp.QuoteMeta(lead) + "(.*?)" + regexp.QuoteMeta(trailing))
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeValidation, "invalid placeholder pattern", err)
	}
	return &Pattern{lead: lead, trailing: trailing, re: re}, nil
}

// Default returns the pattern for the stock Japanese message template.
func Default() *Pattern {
	p, err := New(DefaultLead, DefaultTrailing)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) Lead() string     { return p.lead }
func (p *Pattern) Trailing() string { return p.trailing }

// Render produces the full token for url.
func (p *Pattern) Render(url string) string {
	return p.lead + url + p.trailing
}

// Find returns the segment enclosed by the first occurrence.
func (p *Pattern) Find(text string) (string, bool) {
	m := p.re.FindStringSubmatchIndex(text)
	if m == nil {
		return "", false
	}
	return text[m[2]:m[3]], true
}

// Replace swaps the segment of the first occurrence for url. Everything
// outside the segment is returned byte for byte. url is inserted literally.
func (p *Pattern) Replace(text, url string) (string, bool) {
	m := p.re.FindStringSubmatchIndex(text)
	if m == nil {
		return text, false
	}
	return text[:m[2]] + url + text[m[3]:], true
}
