// Package extract parses front-page and comment-page markup.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newshound/newshound/internal/news"
)

// ErrNoTitleAnchor marks a story row without a title link.
var ErrNoTitleAnchor = errors.New("story row has no title anchor")

// replyMarker is the visible text of the self-referential reply anchor
// inside each comment; such anchors are not outbound links.
const replyMarker = "reply"

// Stories parses the front page into at most limit story records, in
// document order. A malformed row (missing title anchor) fails that
// row only: the rows parsed before and after it are still returned,
// alongside a non-nil error describing the bad rows.
func Stories(body []byte, limit int) ([]news.Story, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse front page: %w", err)
	}

	var (
		stories []news.Story
		rowErrs []error
	)
	doc.Find("tr.athing").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(stories) >= limit {
			return false
		}
		id, _ := row.Attr("id")
		anchor := row.Find("a.titlelink").First()
		if anchor.Length() == 0 {
			rowErrs = append(rowErrs, fmt.Errorf("row %q: %w", id, ErrNoTitleAnchor))
			return true
		}
		href, _ := anchor.Attr("href")
		stories = append(stories, news.Story{
			ID:   id,
			Name: anchor.Text(),
			URL:  href,
		})
		return true
	})

	return stories, errors.Join(rowErrs...)
}

// CommentLinks returns the href of every anchor under every comment
// node of the story's comment tree, excluding reply anchors, in
// document order with duplicates preserved. A page without a comment
// tree yields an empty list: that is the normal "no comments yet"
// case, not an error.
func CommentLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse comment page: %w", err)
	}

	tree := doc.Find("table.comment-tree").First()
	if tree.Length() == 0 {
		return nil, nil
	}

	var links []string
	tree.Find("div.comment").Each(func(_ int, comment *goquery.Selection) {
		comment.Find("a").Each(func(_ int, anchor *goquery.Selection) {
			if anchor.Text() == replyMarker {
				return
			}
			if href, ok := anchor.Attr("href"); ok {
				links = append(links, href)
			}
		})
	})
	return links, nil
}

// DocumentTitle returns the trimmed contents of the page's <title>
// element, or an empty string when the page has none.
func DocumentTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
