package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corvid-labs/magpie/core"
)

const (
	// DefaultMaxTokens is the default per-chunk token budget.
	DefaultMaxTokens = 300

	// DefaultOverlap is the default number of trailing words a chunk shares
	// with its successor.
	DefaultOverlap = 50
)

// TokenCounter estimates the number of tokens in a piece of text.
type TokenCounter func(text string) int

// WordCount is the default token counter. It approximates tokens by counting
// whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Chunker splits text into overlapping, size-bounded chunks.
type Chunker struct {
	maxTokens int
	overlap   int
	counter   TokenCounter
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMaxTokens sets the per-chunk token budget.
// Default is DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 1 {
			return ErrInvalidMaxTokens
		}
		c.maxTokens = n
		return nil
	}
}

// WithOverlap sets the number of words a chunk shares with its predecessor.
// Default is DefaultOverlap.
func WithOverlap(n int) Option {
	return func(c *Chunker) error {
		if n < 0 {
			return ErrInvalidOverlap
		}
		c.overlap = n
		return nil
	}
}

// WithTokenCounter replaces the default word-count token approximation.
func WithTokenCounter(counter TokenCounter) Option {
	return func(c *Chunker) error {
		if counter == nil {
			counter = WordCount
		}
		c.counter = counter
		return nil
	}
}

// New creates a Chunker.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
		counter:   WordCount,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.overlap >= c.maxTokens {
		return nil, ErrOverlapTooLarge
	}

	return c, nil
}

// Chunk splits text into chunks. Each chunk accumulates whole sentences until
// adding the next sentence would exceed the token budget; a single sentence
// longer than the budget becomes its own oversized chunk rather than being
// truncated. Every chunk but the first begins with the trailing overlap words
// of its predecessor.
//
// Chunk indices are assigned sequentially from 0. StartPos and EndPos are
// byte offsets of the chunk's text within the input, so Text is always an
// exact substring of the input.
//
// Returns ErrEmptyInput when text is empty or whitespace-only.
func (c *Chunker) Chunk(text string) ([]core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	words := scanWords(text)

	var chunks []core.Chunk
	start := 0
	prevEnd := -1
	for start < len(words) {
		end := c.fill(text, words, start, prevEnd)
		chunkText := text[words[start].start:words[end].end]
		chunks = append(chunks, core.Chunk{
			ID:            core.NewChunkID(),
			Text:          chunkText,
			Index:         len(chunks),
			StartPos:      words[start].start,
			EndPos:        words[end].end,
			SentenceCount: words[end].sentence - words[start].sentence + 1,
			WordCount:     end - start + 1,
			ContentHash:   core.Fingerprint(chunkText),
		})

		if end == len(words)-1 {
			break
		}

		// Slide the window back so the next chunk repeats the trailing
		// overlap words. The clamp guarantees forward progress even when a
		// chunk is shorter than the overlap.
		next := end + 1 - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
		prevEnd = end
	}

	return chunks, nil
}

// fill returns the index of the last word of the chunk starting at start.
// The first unit is the remainder of the sentence containing start; further
// whole sentences are added while they fit the token budget. A chunk must
// always advance past prevEnd, so carried overlap words never exhaust the
// budget on their own.
func (c *Chunker) fill(text string, words []span, start, prevEnd int) int {
	end := endOfSentence(words, start)
	used := c.counter(text[words[start].start:words[end].end])

	for end < len(words)-1 {
		nextEnd := endOfSentence(words, end+1)
		cost := c.counter(text[words[end+1].start:words[nextEnd].end])
		if end > prevEnd && used+cost > c.maxTokens {
			break
		}
		used += cost
		end = nextEnd
	}

	return end
}

// endOfSentence returns the index of the last word belonging to the same
// sentence as words[i].
func endOfSentence(words []span, i int) int {
	s := words[i].sentence
	for i < len(words)-1 && words[i+1].sentence == s {
		i++
	}
	return i
}

// span locates one word within the input text and records which sentence it
// belongs to.
type span struct {
	start    int
	end      int
	sentence int
}

// scanWords tokenizes text into words with byte offsets, assigning a
// monotonically increasing sentence number. A sentence ends at a word whose
// trailing rune is sentence-terminal punctuation, or at a line break.
func scanWords(text string) []span {
	var words []span
	sentence := 0
	bump := false

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if r == '\n' && len(words) > 0 {
				bump = true
			}
			i += size
			continue
		}

		if bump {
			sentence++
			bump = false
		}

		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}

		words = append(words, span{start: start, end: i, sentence: sentence})
		if endsSentence(text[start:i]) {
			bump = true
		}
	}

	return words
}

// endsSentence reports whether a word closes a sentence. Trailing quotes and
// brackets are ignored so that `sentence.")` still terminates.
func endsSentence(word string) bool {
	word = strings.TrimRight(word, "\"')]}`")
	r, _ := utf8.DecodeLastRuneInString(word)
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
