package retrieval

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/model"
)

// excerptPad is the window half-width around the first term hit.
const excerptPad = 160

var termRe = regexp.MustCompile(`[A-Za-z0-9]{3,}`)

// tokenizeQuery extracts case-folded alphanumeric runs of length >= 3.
// Duplicates are kept on purpose: a repeated term doubles its weight.
func tokenizeQuery(q string) []string {
	matches := termRe.FindAllString(q, -1)
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		terms = append(terms, strings.ToLower(m))
	}
	return terms
}

// rankedHit is one scored candidate; not persisted anywhere.
type rankedHit struct {
	score    int
	index    int
	text     string
	firstPos int
}

// scoreCandidates scores every non-empty candidate by total term occurrence
// count. firstPos is the earliest occurrence of any term within that same
// candidate; tie-breaks never compare offsets across different terms of
// different candidates.
func scoreCandidates(terms []string, pool []string) []rankedHit {
	var scored []rankedHit
	for i, raw := range pool {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		lower := strings.ToLower(t)
		score := 0
		firstPos := -1
		for _, term := range terms {
			for from := 0; ; {
				idx := strings.Index(lower[from:], term)
				if idx < 0 {
					break
				}
				pos := from + idx
				score++
				if firstPos < 0 || pos < firstPos {
					firstPos = pos
				}
				from = pos + len(term)
			}
		}
		if score > 0 && firstPos >= 0 {
			scored = append(scored, rankedHit{score: score, index: i, text: t, firstPos: firstPos})
		}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].score != scored[b].score {
			return scored[a].score > scored[b].score
		}
		return scored[a].firstPos < scored[b].firstPos
	})
	return scored
}

// KeywordExcerpts is the deterministic text fallback: up to k highlighted
// excerpts from the candidate pool, best score first. A query with no
// usable terms, or a pool with no scoring candidate, yields nothing.
func KeywordExcerpts(query string, pool []string, k int) []model.TextSnippet {
	terms := tokenizeQuery(query)
	if len(terms) == 0 {
		return nil
	}
	scored := scoreCandidates(terms, pool)
	if len(scored) == 0 {
		return nil
	}
	excerpts := make([]model.TextSnippet, 0, k)
	for _, hit := range scored {
		excerpts = append(excerpts, model.TextSnippet{
			Text:       highlightTerms(excerptAround(hit.text, hit.firstPos), terms),
			PageNumber: "N/A",
		})
		if len(excerpts) >= k {
			break
		}
	}
	return excerpts
}

// KeywordImageHits is the image fallback: up to k images picked by caption
// keyword score. Unlike the text variant, a zero-hit query still shows
// something: the first k images in original order.
func KeywordImageHits(query string, images []string, captions []string, k int) []model.ImageHit {
	terms := tokenizeQuery(query)
	n := len(images)
	if len(captions) < n {
		n = len(captions)
	}
	var picks []int
	if scored := scoreCandidates(terms, captions[:n]); len(scored) > 0 {
		for _, hit := range scored {
			picks = append(picks, hit.index)
			if len(picks) >= k {
				break
			}
		}
	} else {
		limit := k
		if n < limit {
			limit = n
		}
		for i := 0; i < limit; i++ {
			picks = append(picks, i)
		}
	}
	hits := make([]model.ImageHit, 0, len(picks))
	for _, i := range picks {
		data, ok := corpus.EnsureBase64(images[i])
		if !ok {
			continue
		}
		hits = append(hits, model.ImageHit{
			Data:    data,
			Summary: highlightTerms(strings.TrimSpace(captions[i]), terms),
		})
	}
	return hits
}

// excerptAround centers a fixed window on the first hit, with ellipsis
// markers whenever the window clips the candidate.
func excerptAround(text string, hitPos int) string {
	start := hitPos - excerptPad
	if start < 0 {
		start = 0
	}
	end := hitPos + excerptPad
	if end > len(text) {
		end = len(text)
	}
	start = alignRuneStart(text, start)
	end = alignRuneStart(text, end)
	pre, post := "", ""
	if start > 0 {
		pre = "…"
	}
	if end < len(text) {
		post = "…"
	}
	return pre + strings.TrimSpace(text[start:end]) + post
}

// alignRuneStart moves a byte offset left to the nearest rune boundary.
func alignRuneStart(s string, pos int) int {
	for pos > 0 && pos < len(s) && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}

// highlightTerms wraps every case-insensitive term occurrence in <mark>.
// Applied to the already-windowed text, so a hit that straddles the window
// boundary stays unhighlighted.
func highlightTerms(s string, terms []string) string {
	for _, term := range terms {
		re := regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(term) + `)`)
		s = re.ReplaceAllString(s, "<mark>$1</mark>")
	}
	return s
}
