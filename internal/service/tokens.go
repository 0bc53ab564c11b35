package service

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// countTokens approximates the token count of text. It returns 0 when the
// encoding is unavailable.
func countTokens(text string) int {
	if text == "" {
		return 0
	}
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(fallbackEncoding)
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return 0
	}
	return len(encoding.Encode(text, nil, nil))
}

// estimateUsage builds UsageInfo from the request and response text.
func estimateUsage(req StructuredRequest, completion string) UsageInfo {
	prompt := countTokens(req.SystemInstruction) + countTokens(req.UserContent)
	out := countTokens(completion)
	return UsageInfo{
		PromptTokens:     prompt,
		CompletionTokens: out,
		TotalTokens:      prompt + out,
		Estimated:        true,
	}
}
