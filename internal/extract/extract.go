// Package extract turns a rendered Steam comment feed into comment records.
package extract

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	strip "github.com/grokify/html-strip-tags-go"
	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/comments"
	"github.com/JakeFAU/steam-profile-comments/internal/metrics"
)

// Selectors used by the Steam comment thread templates.
const (
	blockSelector   = ".commentthread_comment"
	contentSelector = ".commentthread_comment_content"
	authorSelector  = ".commentthread_comment_author a"
	personaSelector = "bdi"
	textSelector    = ".commentthread_comment_text"
	avatarSelector  = ".commentthread_comment_avatar img"
	mediumToken     = "medium"
)

// DefaultAvatarURL is served when a comment block has no usable medium avatar.
const DefaultAvatarURL = "https://cdn.cloudflare.steamstatic.com/steamcommunity/public/images/avatars/48/4888d158c81bc8f1d7644321d9eb78b0048a9bda_medium.jpg"

// Skip reasons reported to metrics.
const (
	skipMissingID     = "missing_id"
	skipMissingAuthor = "missing_author"
	skipMissingText   = "missing_text"
)

// Config controls extraction defaults.
type Config struct {
	DefaultAvatarURL string
}

// Extractor implements comments.Extractor with goquery.
type Extractor struct {
	defaultAvatar string
	logger        *zap.Logger
}

// New builds an Extractor.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	avatar := cfg.DefaultAvatarURL
	if avatar == "" {
		avatar = DefaultAvatarURL
	}
	return &Extractor{defaultAvatar: avatar, logger: logger}
}

// Extract parses doc.CommentsHTML and returns one record per distinct comment
// id, in the order ids were first recorded. A zero TotalCount yields an empty
// result without parsing. Individual malformed blocks are skipped.
func (e *Extractor) Extract(doc comments.FeedDocument) ([]comments.Record, error) {
	if doc.Empty() {
		return []comments.Record{}, nil
	}

	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.CommentsHTML))
	if err != nil {
		return nil, fmt.Errorf("parse comments html: %w", err)
	}

	table := newRecordTable()
	root.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		e.extractBlock(block, table)
	})

	records := table.records()
	metrics.ObserveExtracted(len(records))
	return records, nil
}

func (e *Extractor) extractBlock(block *goquery.Selection, table *recordTable) {
	commentID, ok := block.Attr("id")
	commentID = strings.TrimSpace(commentID)
	if !ok || commentID == "" {
		e.skip(skipMissingID, "")
		return
	}

	block.Find(contentSelector).Each(func(_ int, content *goquery.Selection) {
		record, reason := e.extractContent(content)
		if reason != "" {
			e.skip(reason, commentID)
			return
		}
		table.put(commentID, record)
	})

	if record := table.get(commentID); record != nil {
		if src := mediumAvatar(block.Find(avatarSelector).First()); src != "" {
			record.AvatarSrc = src
		}
	}
}

func (e *Extractor) extractContent(content *goquery.Selection) (comments.Record, string) {
	authorURL, _ := content.Find(authorSelector).First().Attr("href")
	authorURL = strings.TrimSpace(authorURL)
	if authorURL == "" {
		return comments.Record{}, skipMissingAuthor
	}

	text := commentText(content.Find(textSelector).First())
	if text == "" {
		return comments.Record{}, skipMissingText
	}

	return comments.Record{
		AuthorURL:     authorURL,
		AuthorComment: text,
		PersonaName:   strings.TrimSpace(content.Find(personaSelector).First().Text()),
		AvatarSrc:     e.defaultAvatar,
	}, ""
}

func (e *Extractor) skip(reason, commentID string) {
	metrics.ObserveSkipped(reason)
	e.logger.Debug("skipping comment fragment",
		zap.String("reason", reason),
		zap.String("comment_id", commentID),
	)
}

// commentText returns the plain text of a comment body with markup removed.
func commentText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	inner, err := sel.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strip.StripTags(inner)))
}

// mediumAvatar picks the medium variant from an img srcset. Entries whose
// descriptor names the medium size win over entries whose URL merely
// contains it.
func mediumAvatar(img *goquery.Selection) string {
	srcset, ok := img.Attr("srcset")
	if !ok {
		return ""
	}
	return MediumFromSrcset(srcset)
}

// MediumFromSrcset returns the URL of the "medium" entry in a srcset value,
// or "" when none matches.
func MediumFromSrcset(srcset string) string {
	var byURL string
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		src := fields[0]
		for _, descriptor := range fields[1:] {
			if strings.Contains(descriptor, mediumToken) {
				return src
			}
		}
		if byURL == "" && strings.Contains(src, mediumToken) {
			byURL = src
		}
	}
	return byURL
}
