// Package render turns raw answer text plus video-link metadata into
// display-ready content. All transforms are pure and order-independent per
// token; no state is kept here.
package render

import "regexp"

var (
	videoTokenRE      = regexp.MustCompile(`\[video(\d+)\]`)
	numberedItemRE    = regexp.MustCompile(`(\d+)\.\s*\*\*(.*?)\*\*(:?)\s*([-\s]*)(.+)`)
	timestampMarkerRE = regexp.MustCompile(`\*{4}timestamp\*{4}\s*(\[video\d+\])`)
	headingBoldRE     = regexp.MustCompile(`(?m)^(#{1,6})\s*\*\*(.*?)\*\*`)
	youtubeIDRE       = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)
)

// ResolveVideoTokens replaces each [videoN] token with an anchor to the
// first URL in its mapped list. Unmapped tokens are left verbatim.
func ResolveVideoTokens(text string, videoLinks map[string][]string) string {
	if len(videoLinks) == 0 {
		return text
	}
	return videoTokenRE.ReplaceAllStringFunc(text, func(token string) string {
		urls := videoLinks[token]
		if len(urls) == 0 {
			return token
		}
		return `<a href="` + urls[0] + `" target="_blank" rel="noopener noreferrer" class="video-link">Video</a>`
	})
}

// PlainVideoTokens replaces each mapped token with its first URL, for
// terminal display. Unmapped tokens are left verbatim.
func PlainVideoTokens(text string, videoLinks map[string][]string) string {
	if len(videoLinks) == 0 {
		return text
	}
	return videoTokenRE.ReplaceAllStringFunc(text, func(token string) string {
		urls := videoLinks[token]
		if len(urls) == 0 {
			return token
		}
		return urls[0]
	})
}

// FormatAnswer produces display markup from raw answer text: video tokens
// become links, "N. **Title** body" items become a two-line title/body
// block, stray timestamp markers are stripped, and heading-level bold
// markers are simplified.
func FormatAnswer(text string, videoLinks map[string][]string) string {
	if text == "" {
		return ""
	}

	out := ResolveVideoTokens(text, videoLinks)
	out = numberedItemRE.ReplaceAllString(out,
		`<div class="answer-item-title">$1. $2$3</div><div class="answer-item-body">$4$5</div>`)
	out = timestampMarkerRE.ReplaceAllString(out, "$1")
	out = headingBoldRE.ReplaceAllString(out, "$1 <strong>$2</strong>")
	return out
}

// YouTubeVideoIDs extracts the 11-character video IDs from a list of
// YouTube URLs, de-duplicated in first-seen order. URLs that do not parse
// to a valid ID are skipped.
func YouTubeVideoIDs(urls []string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, u := range urls {
		m := youtubeIDRE.FindStringSubmatch(u)
		if m == nil || len(m[1]) != 11 {
			continue
		}
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}
