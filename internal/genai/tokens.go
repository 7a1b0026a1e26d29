package genai

import "github.com/tiktoken-go/tokenizer"

// EstimateTokens returns an approximate token count for text, for request logging and cost awareness. All supported providers are close enough to the o200k
// vocabulary for observability purposes; if the tokenizer is somehow unavailable, a bytes/4 estimate is used.
func EstimateTokens(text string) int {
	enc, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return len(text) / 4
	}
	count, err := enc.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}
