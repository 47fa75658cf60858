package services

import "strings"

// Slug lowercases name and collapses every run of characters outside
// [a-z0-9] into a single "-", trimming dashes at both ends.
// "Class 10 (CBSE)" becomes "class-10-cbse".
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
