package plex

import (
	"context"
	"fmt"

	"github.com/plexdedupe/plexdedupe/pkg/logging"
	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// Catalog adapts the Plex client to the engine's catalog collaborator role:
// it supplies the flat record listing per scan and performs retractions after
// confirmed physical deletes.
type Catalog struct {
	client *Client
	logger logging.Logger
}

// NewCatalog wraps a client. A nil logger is replaced by the null logger.
func NewCatalog(client *Client, logger logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Catalog{client: client, logger: logger}
}

// FetchDuplicates scans every movie (and optionally show) section and returns
// one record per media version of every item that carries more than one
// version. A section that cannot be read fails the scan: without the full
// listing the plan would be meaningless.
func (c *Catalog) FetchDuplicates(ctx context.Context, includeShows bool) ([]models.Record, error) {
	sections, err := c.client.Sections(ctx, includeShows)
	if err != nil {
		return nil, fmt.Errorf("list library sections: %w", err)
	}

	var records []models.Record
	for _, section := range sections {
		var videos []Video
		switch section.Type {
		case "show":
			videos, err = c.client.DuplicateEpisodes(ctx, section.Key)
		default:
			videos, err = c.client.DuplicateMovies(ctx, section.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("scan section %q: %w", section.Title, err)
		}

		c.logger.Info(ctx, "section scanned", logging.Fields{
			"section":    section.Title,
			"type":       section.Type,
			"duplicates": len(videos),
		})

		for _, v := range videos {
			records = append(records, recordsForVideo(v)...)
		}
	}

	return records, nil
}

// recordsForVideo flattens one duplicate item into per-version records.
func recordsForVideo(v Video) []models.Record {
	kind := models.KindMovie
	if v.Type == "episode" {
		kind = models.KindEpisode
	}

	records := make([]models.Record, 0, len(v.Media))
	for _, m := range v.Media {
		rec := models.Record{
			LogicalKey: v.RatingKey,
			Kind:       kind,
			Title:      displayTitle(v),
			VersionID:  m.ID,
			RatingKey:  v.RatingKey,
			Size:       mediaSize(m),
			Resolution: m.VideoResolution,
			Codec:      m.VideoCodec,
		}
		if len(m.Part) > 0 {
			rec.Path = m.Part[0].File
		}
		records = append(records, rec)
	}
	return records
}

// displayTitle formats movies as-is and episodes as
// "Show - SxxEyy - Episode Title".
func displayTitle(v Video) string {
	if v.Type != "episode" {
		return v.Title
	}
	show := v.GrandparentTitle
	if show == "" {
		show = "Unknown Show"
	}
	title := fmt.Sprintf("%s - S%02dE%02d", show, v.ParentIndex, v.Index)
	if v.Title != "" {
		title += " - " + v.Title
	}
	return title
}

// mediaSize prefers the media-level size and falls back to summing parts,
// since older servers omit the aggregate attribute.
func mediaSize(m Media) int64 {
	if m.Size > 0 {
		return m.Size
	}
	var total int64
	for _, p := range m.Part {
		total += p.Size
	}
	return total
}

// RemoveVersion retracts one version's catalog record. Satisfies the
// executor's CatalogRemover contract.
func (c *Catalog) RemoveVersion(ctx context.Context, v *models.Version) error {
	return c.client.DeleteMedia(ctx, v.RatingKey, v.ID)
}
