package model

import "strings"

type PostFilters struct {
	// User restricts the result to posts whose author equals it exactly.
	User *string
	// TextContains restricts the result to posts whose text contains the substring.
	TextContains *string
}

func (f PostFilters) Match(p *Post) bool {
	if f.User != nil && p.User != *f.User {
		return false
	}
	if f.TextContains != nil && !strings.Contains(p.Text, *f.TextContains) {
		return false
	}
	return true
}
