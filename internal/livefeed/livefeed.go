// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package livefeed pulls journal RSS/Atom feeds as a non-AI source for the
// live variant. Feed items carry real publication metadata, so records from
// here are verified by construction.
package livefeed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/meshintel/litradar/internal/agent"
	"github.com/meshintel/litradar/internal/httputil"
	"github.com/meshintel/litradar/pkg/types"
)

// liveBaseScore matches the journal-watch profile: items straight from a
// journal feed rank above anything the completion service surfaces.
const liveBaseScore = 90

// Source polls a fixed set of journal feeds.
type Source struct {
	Client *http.Client
	Feeds  []string
	Logger *zap.Logger
}

// New builds a Source from configuration. A nil logger is replaced with a
// no-op.
func New(cfg types.LiveFeedConfig, logger *zap.Logger) *Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		Client: &http.Client{Timeout: timeout},
		Feeds:  cfg.FeedURLs,
		Logger: logger,
	}
}

// Fetch pulls every configured feed and returns items matching the topic
// filter, published at or after cutoff. Feeds are not queryable like search,
// so matching happens locally against topic synonyms. A feed that fails to
// download or parse is logged and skipped.
func (s *Source) Fetch(ctx context.Context, topics []types.Topic, cutoff time.Time) ([]types.PaperRecord, error) {
	if len(topics) == 0 {
		topics = agent.DefaultTopics()
	}

	parser := gofeed.NewParser()
	var out []types.PaperRecord

	for _, feedURL := range s.Feeds {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building feed request: %w", err)
		}
		resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
		if err != nil {
			s.Logger.Warn("feed unreachable", zap.String("url", feedURL), zap.Error(err))
			continue
		}
		feed, err := parser.Parse(resp.Body)
		resp.Body.Close()
		if err != nil {
			s.Logger.Warn("feed unparseable", zap.String("url", feedURL), zap.Error(err))
			continue
		}

		for _, it := range feed.Items {
			rec, ok := itemRecord(it, feed.Title, topics, cutoff)
			if !ok {
				continue
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func itemRecord(it *gofeed.Item, feedTitle string, topics []types.Topic, cutoff time.Time) (types.PaperRecord, bool) {
	var pub time.Time
	if it.PublishedParsed != nil {
		pub = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		pub = *it.UpdatedParsed
	} else {
		return types.PaperRecord{}, false
	}
	if pub.Before(cutoff) {
		return types.PaperRecord{}, false
	}

	text := strings.ToLower(it.Title + " " + it.Description)
	topic, ok := matchTopic(text, topics)
	if !ok {
		return types.PaperRecord{}, false
	}

	var authors []string
	for _, a := range it.Authors {
		if a != nil && a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	return types.PaperRecord{
		ID:                  uuid.NewString(),
		Title:               strings.TrimSpace(it.Title),
		URL:                 strings.TrimSpace(it.Link),
		JournalOrConference: strings.TrimSpace(feedTitle),
		Date:                pub,
		Authors:             authors,
		Topic:               topic,
		PublicationType:     types.PubJournalArticle,
		StudyType:           types.StudyOther,
		Methodology:         types.MethodOther,
		Modality:            types.ModalityOther,
		AbstractHighlight:   strings.TrimSpace(it.Description),
		ValidationScore:     liveBaseScore,
		AuthorsVerified:     true,
		IsLive:              true,
	}, true
}

// matchTopic returns the first topic whose synonym list appears in text.
func matchTopic(text string, topics []types.Topic) (types.Topic, bool) {
	for _, topic := range topics {
		for _, syn := range agent.Synonyms(topic) {
			if strings.Contains(text, strings.ToLower(syn)) {
				return topic, true
			}
		}
	}
	return "", false
}
