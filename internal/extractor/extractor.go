// Package extractor turns rendered listing pages into walk records.
package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/walksync/walksync/internal/identity"
	"github.com/walksync/walksync/internal/model"
	"go.uber.org/zap"
)

var (
	weekdayDatePattern = regexp.MustCompile(`(?i)(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\s+\d{1,2}\s+\w+\s+\d{4}`)
	clockPattern       = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(?:am|pm)?`)
)

// Extractor produces walk records from rendered page content using a
// pluggable Locator for the layout-specific parts.
type Extractor struct {
	locator Locator
	logger  *zap.Logger
}

func NewExtractor(locator Locator, logger *zap.Logger) *Extractor {
	return &Extractor{
		locator: locator,
		logger:  logger.Named("extractor"),
	}
}

// Extract parses the rendered HTML of pageURL and returns the walk records
// found on it. A malformed item is logged and skipped; the rest of the page
// is still processed.
func (e *Extractor) Extract(pageURL, html string) ([]model.WalkRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page content: %w", err)
	}

	items := e.locator.Items(doc)
	if items.Length() == 0 {
		e.logger.Info("no walk listings found", zap.String("url", pageURL))
		return nil, nil
	}

	var walks []model.WalkRecord
	items.Each(func(i int, item *goquery.Selection) {
		walk, err := e.extractItem(pageURL, item)
		if err != nil {
			e.logger.Warn("skipping malformed walk item",
				zap.String("url", pageURL),
				zap.Int("index", i),
				zap.Error(err))
			return
		}
		walks = append(walks, walk)
	})

	e.logger.Info("extracted walks",
		zap.String("url", pageURL),
		zap.Int("items", items.Length()),
		zap.Int("walks", len(walks)))
	return walks, nil
}

func (e *Extractor) extractItem(pageURL string, item *goquery.Selection) (model.WalkRecord, error) {
	title := e.locator.Title(item)
	href, hasHref := e.locator.DetailsHref(item)
	if title == "" && !hasHref {
		return model.WalkRecord{}, fmt.Errorf("item has neither title nor details link")
	}
	if title == "" {
		title = model.NoTitle
	}

	detailsURL := model.NoURL
	if hasHref {
		detailsURL = resolveHref(pageURL, href)
	}

	attr, text := e.locator.DateTime(item)
	walkDate := parseWalkDate(attr, text)

	walk := model.WalkRecord{
		ID:          identity.Derive(detailsURL, title, walkDate),
		GroupName:   detailOrSentinel(e.locator.Detail(item, "Group:")),
		Title:       title,
		Difficulty:  detailOrSentinel(e.locator.Detail(item, "Difficulty:")),
		Distance:    detailOrSentinel(e.locator.Detail(item, "Distance:")),
		WalkDate:    walkDate,
		Location:    cleanLocation(e.locator.LocationText(item)),
		DetailsURL:  detailsURL,
		Description: e.locator.Description(item),
	}
	return walk, nil
}

func detailOrSentinel(value string) string {
	if value == "" {
		return model.ValueNotAvailable
	}
	return value
}

// cleanLocation strips the "Start:" label and any embedded date/time text
// out of the free-text location block.
func cleanLocation(raw string) string {
	if raw == "" {
		return model.NoLocation
	}
	loc := strings.ReplaceAll(raw, "Start:", "")
	loc = weekdayDatePattern.ReplaceAllString(loc, "")
	loc = clockPattern.ReplaceAllString(loc, "")
	loc = strings.TrimSpace(strings.Join(strings.Fields(loc), " "))
	if loc == "" {
		return model.NoLocationSpecified
	}
	return loc
}

// resolveHref makes a details link absolute against the page it came from.
func resolveHref(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
