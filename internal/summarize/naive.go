package summarize

import "strings"

// DefaultMaxChars bounds the naive summary length.
const DefaultMaxChars = 400

// Naive returns the leading sentences of text that fit within maxChars.
// Text already within the limit is returned unchanged. When not even the
// first sentence fits, the text is cut at the last word boundary before the
// limit and terminated with an ellipsis.
func Naive(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	text = strings.TrimSpace(text)
	if len(text) <= maxChars {
		return text
	}

	var out strings.Builder
	for _, sentence := range splitSentences(text) {
		if out.Len()+len(sentence)+1 > maxChars {
			break
		}
		out.WriteString(sentence)
		out.WriteString(" ")
	}
	if out.Len() == 0 {
		cut := text[:maxChars]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		return cut + "..."
	}
	return strings.TrimSpace(out.String())
}

// splitSentences breaks text after '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpace(text[i+1]) {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
