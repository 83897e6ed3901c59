package chunker

import "github.com/pkoukk/tiktoken-go"

// ModelTokenCounter returns a TokenCounter backed by the BPE tokenizer for
// the given model name (e.g. "gpt-4o-mini"). Counting real tokens rather
// than words gives tighter chunks for code and non-English text at the cost
// of tokenizer overhead.
func ModelTokenCounter(model string) (TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, err
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}
