package corpus

// Corpus holds the six artifact collections loaded at startup. Values are
// immutable after Load; a reload builds a fresh Corpus and swaps it in.
type Corpus struct {
	Texts  []string
	Tables []string
	Images []string // clean base64 payloads, caption-aligned with ImageSummaries

	TextSummaries  []string
	TableSummaries []string
	ImageSummaries []string
}

// Empty reports whether no modality produced any content at all.
func (c *Corpus) Empty() bool {
	return len(c.Texts) == 0 && len(c.Tables) == 0 && len(c.Images) == 0
}

// FallbackTextPool is the candidate pool for the keyword text fallback:
// summaries when available, raw texts otherwise.
func (c *Corpus) FallbackTextPool() []string {
	if len(c.TextSummaries) > 0 {
		return c.TextSummaries
	}
	return c.Texts
}
