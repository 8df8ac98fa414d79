package chat

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DiscordMessageLimit is the most characters one message may carry.
	DiscordMessageLimit = 2000

	// MaxMessageLength caps an answer chunk, leaving room for the headers.
	MaxMessageLength = 1900

	// maxQuestionEcho bounds the question repeated in the "You asked" header.
	maxQuestionEcho = 300
)

var disclaimerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)As an AI(.*?),`),
	regexp.MustCompile(`(?i)As a language model(.*?),`),
	regexp.MustCompile(`(?i)As an artificial intelligence(.*?),`),
	regexp.MustCompile(`(?i)I don't have personal experiences(.*?)\.`),
	regexp.MustCompile(`(?i)I don't have the ability to(.*?)\.`),
	regexp.MustCompile(`(?i)I don't have personal opinions(.*?)\.`),
	regexp.MustCompile(`(?i)I don't have consciousness(.*?)\.`),
	regexp.MustCompile(`(?i)I'm just an AI(.*?)\.`),
}

var (
	repeatedSpace  = regexp.MustCompile(`\s{2,}`)
	lowerAfterStop = regexp.MustCompile(`\. [a-z]`)
	paragraphBreak = regexp.MustCompile(`\n\n|\r\n\r\n`)
	sentenceBreak  = regexp.MustCompile(`[.!?]\s+`)
)

// CleanDisclaimers strips "As an AI" style hedging from a reply. Any run of
// whitespace the removal leaves behind collapses to one space, newlines
// included.
func CleanDisclaimers(text string) string {
	for _, p := range disclaimerPatterns {
		text = p.ReplaceAllString(text, "")
	}
	text = repeatedSpace.ReplaceAllString(text, " ")
	text = lowerAfterStop.ReplaceAllStringFunc(text, strings.ToUpper)
	return strings.TrimSpace(text)
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// SplitText breaks text into chunks of at most max characters, preferring
// paragraph boundaries and falling back to sentence boundaries.
func SplitText(text string, max int) []string {
	if length(text) <= max {
		return []string{text}
	}

	var chunks []string
	current := ""
	for _, paragraph := range paragraphBreak.Split(text, -1) {
		if length(current)+length(paragraph)+2 > max {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = paragraph
			continue
		}
		if current != "" {
			current += "\n\n" + paragraph
		} else {
			current = paragraph
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	var result []string
	for _, chunk := range chunks {
		if length(chunk) <= max {
			result = append(result, chunk)
			continue
		}
		sub := ""
		for _, sentence := range splitSentences(chunk) {
			if length(sub)+length(sentence)+1 > max {
				if sub != "" {
					result = append(result, sub)
				}
				sub = sentence
				continue
			}
			if sub != "" {
				sub += " " + sentence
			} else {
				sub = sentence
			}
		}
		if sub != "" {
			result = append(result, sub)
		}
	}

	out := result[:0:0]
	for _, chunk := range result {
		out = append(out, hardSplit(chunk, max)...)
	}
	return out
}

// hardSplit cuts text into max-rune pieces, for sentences too long to keep
// whole.
func hardSplit(text string, max int) []string {
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}
	var out []string
	for len(runes) > max {
		out = append(out, string(runes[:max]))
		runes = runes[max:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// splitSentences splits after terminal punctuation, dropping the whitespace
// between sentences.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(out, text[start:])
}

// FormatAnswer renders the messages posted for one answer. A short answer is
// a single message that replaces the thinking placeholder. Every message,
// header included, fits in DiscordMessageLimit.
func FormatAnswer(question, answer string) []string {
	question = hardSplit(question, maxQuestionEcho)[0]
	single := fmt.Sprintf("**You asked:** %s\n\n**Emo says:** %s", question, answer)
	if length(single) <= DiscordMessageLimit {
		return []string{single}
	}

	// Sized for the widest part counter that can appear.
	widest := fmt.Sprintf("**You asked:** %s\n\n**Emo says (part 999/999):** ", question)
	chunks := SplitText(answer, min(MaxMessageLength, DiscordMessageLimit-length(widest)))
	messages := make([]string, len(chunks))
	for i, chunk := range chunks {
		if i == 0 {
			messages[i] = fmt.Sprintf("**You asked:** %s\n\n**Emo says (part %d/%d):** %s", question, i+1, len(chunks), chunk)
		} else {
			messages[i] = fmt.Sprintf("**Emo continues (part %d/%d):** %s", i+1, len(chunks), chunk)
		}
	}
	return messages
}
