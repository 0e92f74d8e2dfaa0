package format

import (
	"regexp"
	"strings"
)

// Bullet is the glyph used for every generated bullet line.
const Bullet = "•"

// Disclaimer is appended to every tightened answer exactly once.
const Disclaimer = "**Note:** Educational summary only; not a substitute for medical advice."

// disclaimerKey identifies disclaimer lines already present in model output.
// Prompts sometimes echo the disclaimer back, occasionally more than once;
// Tighten drops those lines and appends the canonical copy itself.
const disclaimerKey = "not a substitute for medical advice"

var (
	tabsRe       = regexp.MustCompile(`[ \t]+`)
	softWrapRe   = regexp.MustCompile(`\s*\n\s*`)
	citationRe   = regexp.MustCompile(`\[[0-9,\- ]{1,8}\]`)
	yearRe       = regexp.MustCompile(`\((?:19|20)\d{2}\)`)
	figLabelRe   = regexp.MustCompile(`(?i)^\s*(figure|table)\s*\d+[:\-]\s*`)
	enDashRe     = regexp.MustCompile(`\s*–\s*`)
	emDashRe     = regexp.MustCompile(`\s*—\s*`)
	hyphenRe     = regexp.MustCompile(`\s*-\s*`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)

	sentenceEndRe = regexp.MustCompile(`([.;:])\s+`)
	fragmentRe    = regexp.MustCompile("\x00|•|- ")

	consultRe = regexp.MustCompile(`(?i)\bconsult\s+with\s+(?:your\s+)?healthcare\s+providers?\b.*`)
	seekRe    = regexp.MustCompile(`(?i)\bseek\s+medical\s+advice\b.*`)
)

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = tabsRe.ReplaceAllString(s, " ")
	s = softWrapRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripCitationArtifacts(s string) string {
	s = citationRe.ReplaceAllString(s, "")
	s = yearRe.ReplaceAllString(s, "")
	s = figLabelRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func normalizePunctuation(s string) string {
	s = enDashRe.ReplaceAllString(s, " – ")
	s = emDashRe.ReplaceAllString(s, " — ")
	s = hyphenRe.ReplaceAllString(s, " - ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Sanitize normalizes a summary or snippet to clean single-line text.
// Idempotent: running it twice yields the same string.
func Sanitize(s string) string {
	return normalizePunctuation(stripCitationArtifacts(collapseWhitespace(s)))
}

// Bulletize turns free-form sentences into at most 8 short bullet lines.
// Fragments longer than maxLine keep only their first wrapped line; the
// remainder is dropped on purpose to keep bullets scannable.
func Bulletize(s string, maxLine int) string {
	s = Sanitize(s)
	marked := sentenceEndRe.ReplaceAllString(s, "$1\x00")
	parts := fragmentRe.Split(marked, -1)
	var bullets []string
	for _, p := range parts {
		p = strings.Trim(p, " .;:-")
		if p == "" {
			continue
		}
		if len([]rune(p)) > maxLine {
			if first := wrapFirstLine(p, maxLine); first != "" {
				bullets = append(bullets, first)
			}
		} else {
			bullets = append(bullets, p)
		}
		if len(bullets) >= 8 {
			break
		}
	}
	if len(bullets) == 0 {
		bullets = []string{truncateRunes(s, maxLine)}
	}
	var b strings.Builder
	for i, line := range bullets {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Bullet)
		b.WriteByte(' ')
		b.WriteString(line)
	}
	return b.String()
}

// Tighten compresses model output: drops "consult your provider" phrasing,
// guarantees a bullet list, soft-truncates overlong bullet lines and ends
// with exactly one disclaimer.
func Tighten(ans string, maxLine int) string {
	ans = consultRe.ReplaceAllString(ans, "")
	ans = seekRe.ReplaceAllString(ans, "")

	var lines []string
	for _, ln := range strings.Split(ans, "\n") {
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" || strings.Contains(strings.ToLower(trimmed), disclaimerKey) {
			continue
		}
		lines = append(lines, trimmed)
	}
	bulletCount := 0
	for _, ln := range lines {
		if isBulletLine(ln) {
			bulletCount++
		}
	}
	if bulletCount < 2 {
		ans = Bulletize(strings.Join(lines, " "), maxLine)
	} else {
		fixed := make([]string, 0, len(lines))
		for _, ln := range lines {
			if isBulletLine(ln) && len([]rune(ln)) > maxLine {
				fixed = append(fixed, truncateRunes(ln, maxLine-1)+"…")
			} else {
				fixed = append(fixed, ln)
			}
		}
		ans = strings.Join(fixed, "\n")
	}

	ans += "\n\n" + Disclaimer
	return strings.TrimSpace(ans)
}

// ShortSnippet sanitizes and truncates to width with a trailing ellipsis.
func ShortSnippet(s string, width int) string {
	s = Sanitize(s)
	if len([]rune(s)) > width {
		return truncateRunes(s, width-1) + "…"
	}
	return s
}

// FormatImageCaption tidies an image caption for display.
func FormatImageCaption(summary string, width int) string {
	return ShortSnippet(summary, width)
}

func isBulletLine(ln string) bool {
	return strings.HasPrefix(ln, "-") || strings.HasPrefix(ln, "*") || strings.HasPrefix(ln, Bullet)
}

// wrapFirstLine returns the first line of a greedy word wrap at width.
func wrapFirstLine(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	if len([]rune(words[0])) >= width {
		return truncateRunes(words[0], width)
	}
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			break
		}
		line += " " + w
	}
	return line
}

func truncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
