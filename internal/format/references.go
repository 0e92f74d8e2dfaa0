package format

import (
	"regexp"
	"strings"

	"github.com/xxxsen/ernexus/internal/model"
)

const (
	textRefWidth    = 160
	captionRefWidth = 140
	imageRefPrefix  = "Image: "
)

var markTagRe = regexp.MustCompile(`</?mark>`)

// BuildReferences creates a compact, deduplicated citation list from the
// retrieved context: text snippets first, then image captions while capacity
// remains. Duplicates (exact post-truncation equality) are dropped in place.
func BuildReferences(ctx model.RetrievalContext, maxRefs int) []string {
	refs := make([]string, 0, maxRefs)
	seen := make(map[string]struct{})

	for _, t := range ctx.Texts {
		snip := ShortSnippet(t, textRefWidth)
		if snip != "" {
			if _, dup := seen[snip]; !dup {
				refs = append(refs, snip)
				seen[snip] = struct{}{}
			}
		}
		if len(refs) >= maxRefs {
			return refs
		}
	}

	for _, im := range ctx.Images {
		if im.Caption == "" {
			continue
		}
		snip := imageRefPrefix + ShortSnippet(im.Caption, captionRefWidth)
		if _, dup := seen[snip]; !dup {
			refs = append(refs, snip)
			seen[snip] = struct{}{}
		}
		if len(refs) >= maxRefs {
			break
		}
	}
	return refs
}

// ReferencesFromSnippets re-derives references from keyword-fallback
// excerpts, with highlight markers stripped. Used only when the vector-path
// context produced no references at all.
func ReferencesFromSnippets(snippets []model.TextSnippet, maxRefs int) []string {
	refs := make([]string, 0, maxRefs)
	for _, sn := range snippets {
		text := strings.TrimSpace(markTagRe.ReplaceAllString(sn.Text, ""))
		if text == "" {
			continue
		}
		refs = append(refs, text)
		if len(refs) >= maxRefs {
			break
		}
	}
	return refs
}
