package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

const (
	minQuestionLength = 5
	minAnswerLength   = 10
)

var (
	faqContainers = []string{
		`div[class*="faq"]`,
		`section[class*="faq"]`,
		`div[class*="question"]`,
		`details`,
		`div[class*="accordion"]`,
	}
	questionSelector = `h3, h4, h5, summary, dt, [class*="question"]`
	answerSelector   = `p, div, dd, [class*="answer"]`
)

// ExtractFAQs finds question/answer pairs inside FAQ-like containers. A pair
// is kept when the question is longer than 5 characters and the answer longer
// than 10. Questions repeated across containers are kept once.
func ExtractFAQs(doc *goquery.Document) []brand.FAQ {
	faqs := []brand.FAQ{}
	if doc == nil {
		return faqs
	}
	seen := make(map[string]struct{})
	for _, sel := range faqContainers {
		doc.Find(sel).Each(func(_ int, container *goquery.Selection) {
			question := Text(container.Find(questionSelector).First())
			answer := Text(container.Find(answerSelector).First())
			if runeLen(question) <= minQuestionLength || runeLen(answer) <= minAnswerLength {
				return
			}
			key := strings.ToLower(question)
			if _, ok := seen[key]; ok {
				return
			}
			seen[key] = struct{}{}
			faqs = append(faqs, brand.FAQ{Question: question, Answer: answer})
		})
	}
	return faqs
}
