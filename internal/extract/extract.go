// Package extract finds contact details in raw page text.
package extract

import "regexp"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)

	// Polish numbers: optional +48/0048 prefix, three groups of three digits,
	// groups separated by an optional space or hyphen.
	phoneRe = regexp.MustCompile(`(?:\+48|0048)?[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{3}`)
)

// Contacts holds the extracted contact fields. Empty string means absent.
type Contacts struct {
	Email string
	Phone string
}

// FindContacts scans text for email addresses and phone numbers, deduplicates
// the matches, and returns one element of each resulting set. Which duplicate
// wins is not part of the contract; callers should only rely on the value
// appearing somewhere in the input. Pure function, no side effects.
func FindContacts(text string) Contacts {
	return Contacts{
		Email: first(dedupe(emailRe.FindAllString(text, -1))),
		Phone: first(dedupe(phoneRe.FindAllString(text, -1))),
	}
}

// dedupe removes duplicates, keeping first-seen order.
func dedupe(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := matches[:0]
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func first(matches []string) string {
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}
