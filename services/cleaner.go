package services

import (
	"airbnb-features/models"
	"airbnb-features/utils"
)

var (
	// currencyColumns are normalised in place.
	currencyColumns = []string{
		models.ColWeeklyPrice, models.ColMonthlyPrice, models.ColSecurityDeposit,
		models.ColCleaningFee, models.ColExtraPeople,
	}
	boolLetterColumns = []string{models.ColInstantBookable, models.ColHostSuperhost}
	dateColumns       = []string{models.ColLastScraped, models.ColHostSince, models.ColFirstReview, models.ColLastReview}
)

// ListingsCleaner normalises a raw listings table into typed columns.
type ListingsCleaner struct {
	logger *utils.Logger
}

// NewListingsCleaner creates a ListingsCleaner with the given logger.
func NewListingsCleaner(logger *utils.Logger) *ListingsCleaner {
	return &ListingsCleaner{logger: logger}
}

// Clean returns a copy of listings with prices parsed, t/f flags turned into
// tri-state booleans and date columns split into year, month and weekday.
// Row count and order are preserved; bad cells become missing.
func (c *ListingsCleaner) Clean(listings *models.Table) (*models.Table, error) {
	out := listings.Clone()

	if col, ok := out.Column(models.ColPrice); ok {
		if err := out.Set(CurrencyColumn(col).Renamed(models.ColPriceFloat)); err != nil {
			return nil, err
		}
	}

	for _, name := range currencyColumns {
		if col, ok := out.Column(name); ok {
			if err := out.Set(CurrencyColumn(col)); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range boolLetterColumns {
		if col, ok := out.Column(name); ok && col.Type == models.TypeString {
			if err := out.Set(BoolLettersColumn(col)); err != nil {
				return nil, err
			}
		}
	}

	parsedDates := 0
	for _, name := range dateColumns {
		col, ok := out.Column(name)
		if !ok {
			continue
		}
		year, month, dow := DatePartColumns(col)
		for _, part := range []*models.Column{year, month, dow} {
			if err := out.Set(part); err != nil {
				return nil, err
			}
		}
		parsedDates++
	}

	missingPrice := 0
	if col, ok := out.Column(models.ColPriceFloat); ok {
		missingPrice = col.NullCount()
	}
	c.logger.Info("[cleaner] Cleaned %d listings (%d date columns decomposed, %d without a usable price)",
		out.NumRows(), parsedDates, missingPrice)
	return out, nil
}
