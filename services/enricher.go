package services

import (
	"fmt"

	"airbnb-features/models"
	"airbnb-features/utils"
)

const (
	calendarSuffix = "_cal"
	reviewSuffix   = "_rv"
)

// FeatureEnricher left-joins calendar and review aggregates onto cleaned listings.
type FeatureEnricher struct {
	logger *utils.Logger
}

func NewFeatureEnricher(logger *utils.Logger) *FeatureEnricher {
	return &FeatureEnricher{logger: logger}
}

// Enrich attaches booking_rate, mean_daily_price and days from calendarAgg, and
// reviews_count and last_review_year from reviews. The result always has
// exactly one row per input listing.
func (e *FeatureEnricher) Enrich(listings, calendarAgg, reviews *models.Table) (*models.Table, error) {
	base := listings.Clone()

	key := Resolve(base, ListingKeyPreference...)
	if !key.Found {
		e.logger.Warn("[enricher] Listings have no join key: %s. Passing through unchanged", key.Reason)
		return base, nil
	}

	if !calendarAgg.IsEmpty() {
		joined, err := models.LeftJoin(base, key.Column, calendarAgg, models.ColListingID, calendarSuffix)
		if err != nil {
			return nil, fmt.Errorf("enricher: calendar join: %w", err)
		}
		base = joined.Drop(models.ColListingID + calendarSuffix)
	} else {
		e.logger.Debug("[enricher] Calendar aggregate is empty, skipping join")
	}

	if reviews.Has(models.ColListingID) {
		agg, err := reviewAggregate(reviews)
		if err != nil {
			return nil, fmt.Errorf("enricher: %w", err)
		}
		joined, err := models.LeftJoin(base, key.Column, agg, models.ColListingID, reviewSuffix)
		if err != nil {
			return nil, fmt.Errorf("enricher: review join: %w", err)
		}
		base = joined.Drop(models.ColListingID + reviewSuffix)
	} else {
		e.logger.Debug("[enricher] Reviews have no %q column, skipping join", models.ColListingID)
	}

	if base.NumRows() != listings.NumRows() {
		return nil, fmt.Errorf("enricher: %d rows out for %d listings in: %w",
			base.NumRows(), listings.NumRows(), models.ErrLengthMismatch)
	}

	e.logger.Info("[enricher] Enriched %d listings on %q (%d columns)", base.NumRows(), key.Column, base.NumCols())
	return base, nil
}

// reviewAggregate counts reviews and finds the latest review year per listing.
// The count prefers non-missing review ids when the table has them.
func reviewAggregate(reviews *models.Table) (*models.Table, error) {
	var years *models.Column
	if col, ok := reviews.Column(models.ColDate); ok {
		years = yearColumn(col, models.ColYearReview)
	}
	ids, hasIDs := reviews.Column(models.ColID)

	groups, err := reviews.GroupBy(models.ColListingID)
	if err != nil {
		return nil, err
	}
	keyCol, _ := reviews.Column(models.ColListingID)

	keys := make([]models.Value, len(groups))
	counts := make([]models.Value, len(groups))
	latest := make([]models.Value, len(groups))
	for i, g := range groups {
		keys[i] = g.Key

		n := len(g.Rows)
		if hasIDs {
			n = 0
			for _, r := range g.Rows {
				if !ids.Values[r].Null {
					n++
				}
			}
		}
		counts[i] = models.Int(int64(n))
		latest[i] = maxOf(years, g.Rows)
	}

	return models.NewTable(
		models.NewColumn(models.ColListingID, keyCol.Type, keys),
		models.NewColumn(models.ColReviewsCount, models.TypeInt, counts),
		models.NewColumn(models.ColLastReviewYear, models.TypeInt, latest),
	)
}

// maxOf returns the largest non-missing int cell of c at rows.
func maxOf(c *models.Column, rows []int) models.Value {
	if c == nil {
		return models.Null()
	}
	best := models.Null()
	for _, r := range rows {
		v := c.Values[r]
		if v.Null {
			continue
		}
		if best.Null || v.I > best.I {
			best = v
		}
	}
	return best
}
