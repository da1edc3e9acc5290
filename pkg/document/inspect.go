package document

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary describes the code block found in an input document
type Summary struct {
	PreCount  int
	Lines     int // Line count of the first <pre>
	HasStyles bool
}

// Inspect parses the input document and checks it carries a code block to frame.
// A document without any <pre> is rejected. With several, the first one is the
// one that gets framed and the rest are dropped from the page.
func Inspect(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to parse input HTML: %w", err)
	}

	pres := doc.Find("pre")
	summary := Summary{
		PreCount:  pres.Length(),
		HasStyles: doc.Find("style, link[rel='stylesheet']").Length() > 0 || doc.Find("[style]").Length() > 0,
	}

	if summary.PreCount == 0 {
		return summary, fmt.Errorf("input file %s contains no <pre> element", path)
	}
	if summary.PreCount > 1 {
		log.Printf("WARNING: input file %s contains %d <pre> elements, only the first is rendered", path, summary.PreCount)
	}

	text := pres.First().Text()
	summary.Lines = strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1

	log.Printf("DEBUG: Input document has %d <pre> element(s), first spans %d line(s), styled=%v",
		summary.PreCount, summary.Lines, summary.HasStyles)
	return summary, nil
}
