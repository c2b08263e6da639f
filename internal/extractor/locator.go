package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Locator isolates the layout-specific selectors from the extraction
// pipeline. A markup change on the source site means a new Locator
// implementation, not pipeline changes.
type Locator interface {
	// Items returns the listing-item containers on the page.
	Items(doc *goquery.Document) *goquery.Selection

	// Title returns the listing title text, or "" when the item has none.
	Title(item *goquery.Selection) string

	// DetailsHref returns the href of the listing's details link.
	DetailsHref(item *goquery.Selection) (href string, ok bool)

	// Detail looks up a labeled key/value pair (e.g. "Group:") and returns
	// its value, or "" when the label is absent.
	Detail(item *goquery.Selection, label string) string

	// DateTime returns the machine-readable datetime attribute and the
	// element's free text. Either may be empty.
	DateTime(item *goquery.Selection) (attr string, text string)

	// LocationText returns the raw free-text block the location is buried in.
	LocationText(item *goquery.Selection) string

	// Description returns the listing summary text.
	Description(item *goquery.Selection) string
}

// SearchResultsLocator targets the search-results-card listing layout.
type SearchResultsLocator struct{}

func (SearchResultsLocator) Items(doc *goquery.Document) *goquery.Selection {
	return doc.Find("div.search-results-card")
}

func (SearchResultsLocator) titleLink(item *goquery.Selection) *goquery.Selection {
	return item.Find("h2.h4 > a").First()
}

func (l SearchResultsLocator) Title(item *goquery.Selection) string {
	link := l.titleLink(item)
	if link.Length() == 0 {
		return ""
	}
	// The title usually sits in a decorated span; fall back to the whole
	// anchor text when the span is missing.
	if span := link.Find("span.rams-text-decoration-pink").First(); span.Length() > 0 {
		return strings.TrimSpace(span.Text())
	}
	return strings.TrimSpace(link.Text())
}

func (l SearchResultsLocator) DetailsHref(item *goquery.Selection) (string, bool) {
	return l.titleLink(item).Attr("href")
}

// Detail walks the item's <dt> tags looking for an exact label match and
// returns the text of the sibling <dd>.
func (SearchResultsLocator) Detail(item *goquery.Selection, label string) string {
	var value string
	item.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if strings.TrimSpace(dt.Text()) != label {
			return true
		}
		dd := dt.NextFiltered("dd")
		if dd.Length() > 0 {
			value = strings.TrimSpace(dd.Text())
		}
		return false
	})
	return value
}

func (SearchResultsLocator) DateTime(item *goquery.Selection) (string, string) {
	timeTag := item.Find("p.text-left time").First()
	if timeTag.Length() == 0 {
		return "", ""
	}
	attr, _ := timeTag.Attr("datetime")
	return attr, strings.TrimSpace(timeTag.Text())
}

func (SearchResultsLocator) LocationText(item *goquery.Selection) string {
	p := item.Find("div.row > div.col-12.mb-2.col > p.text-left.mb-1").First()
	if p.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(p.Text()), " ")
}

func (SearchResultsLocator) Description(item *goquery.Selection) string {
	return strings.TrimSpace(item.Find("div.search-results-summary p").First().Text())
}
