package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// MinPhoneDigits is the shortest digit run accepted as a phone number. Any
// digit run that long is accepted, so order numbers and similar values can
// show up as false positives.
const MinPhoneDigits = 7

var (
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`),
		regexp.MustCompile(`\+?([0-9]{1,3})[-.\s]?([0-9]{3,4})[-.\s]?([0-9]{3,4})[-.\s]?([0-9]{3,4})`),
	}
)

// ExtractContactInfo pulls emails and phone numbers from the document text.
func ExtractContactInfo(doc *goquery.Document) brand.ContactInfo {
	info := brand.ContactInfo{Emails: []string{}, PhoneNumbers: []string{}}
	if doc == nil {
		return info
	}
	return ContactInfoFromText(PageText(doc))
}

// ContactInfoFromText applies the email and phone patterns to free text.
// Phone numbers are the concatenated digit groups of each match.
func ContactInfoFromText(text string) brand.ContactInfo {
	info := brand.ContactInfo{
		Emails:       uniqueStrings(emailRe.FindAllString(text, -1)),
		PhoneNumbers: []string{},
	}

	seen := make(map[string]struct{})
	for _, re := range phoneRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			digits := strings.Join(m[1:], "")
			if len(digits) < MinPhoneDigits {
				continue
			}
			if _, ok := seen[digits]; ok {
				continue
			}
			seen[digits] = struct{}{}
			info.PhoneNumbers = append(info.PhoneNumbers, digits)
		}
	}
	return info
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
