package hako

import (
	"regexp"
	"strconv"
)

// Chapter headings on the site come in a handful of shapes ("Chương 45:
// ...", "Chapter 12.5", "Chap 3", "#7"). Patterns are tried in order and
// the first capture wins; the href is the last resort.
var (
	chapterTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)chương\s+(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)chapter\s+(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)chap\s+(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`#(\d+(?:\.\d+)?)`),
	}

	chapterHrefPattern = regexp.MustCompile(`/c(\d+(?:\.\d+)?)`)
)

// ExtractChapterNumber derives the numeric chapter key from a chapter
// link. Fractional numbers are valid (side chapters like 12.5). A link
// with no recognizable number yields ok=false; callers drop the record.
func ExtractChapterNumber(title, href string) (float64, bool) {
	for _, p := range chapterTitlePatterns {
		if m := p.FindStringSubmatch(title); len(m) > 1 {
			return parseChapterNumber(m[1])
		}
	}

	if m := chapterHrefPattern.FindStringSubmatch(href); len(m) > 1 {
		return parseChapterNumber(m[1])
	}

	return 0, false
}

func parseChapterNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}
