package services

import (
	"fmt"

	"airbnb-features/models"
	"airbnb-features/utils"
)

var (
	// NumericFeatures is the allowlist of numeric model inputs.
	NumericFeatures = []string{
		"accommodates", "bathrooms", "bedrooms", "beds", "number_of_reviews", "review_scores_rating",
		models.ColWeeklyPrice, models.ColMonthlyPrice, models.ColSecurityDeposit, models.ColCleaningFee,
		models.ColExtraPeople, models.ColBookingRate, models.ColMeanDailyPrice, models.ColReviewsCount,
	}
	// CategoricalFeatures is the allowlist of categorical model inputs.
	CategoricalFeatures = []string{models.ColRoomType, models.ColNeighbourhood, models.ColPropertyType}
)

// Datasets is the pair of labelled projections built from the enriched listings.
// ClassTarget is empty when no classification target was found, in which case
// Classification is an empty table.
type Datasets struct {
	Regression     *models.Table
	Classification *models.Table
	ClassTarget    string
}

// DatasetBuilder projects enriched listings onto the regression and
// classification feature allowlists.
type DatasetBuilder struct {
	logger *utils.Logger

	// IncludePrice also offers price_float to the classifier as a feature.
	IncludePrice bool
}

func NewDatasetBuilder(logger *utils.Logger) *DatasetBuilder {
	return &DatasetBuilder{logger: logger}
}

// Build returns the regression dataset labelled by price_float and the
// classification dataset labelled by the resolved boolean target. Rows with a
// missing label are dropped from each.
func (b *DatasetBuilder) Build(enriched *models.Table) (*Datasets, error) {
	features := append(present(enriched, NumericFeatures), present(enriched, CategoricalFeatures)...)
	out := &Datasets{Regression: models.EmptyTable(), Classification: models.EmptyTable()}

	if enriched.Has(models.ColPriceFloat) {
		reg, err := enriched.Select(append([]string{models.ColPriceFloat}, features...)...)
		if err != nil {
			return nil, fmt.Errorf("datasets: regression: %w", err)
		}
		if out.Regression, err = reg.DropNull(models.ColPriceFloat); err != nil {
			return nil, fmt.Errorf("datasets: regression: %w", err)
		}
	} else {
		b.logger.Warn("[datasets] No %q column, regression dataset is empty", models.ColPriceFloat)
	}

	target := Resolve(enriched, TargetPreference...)
	if !target.Found {
		b.logger.Warn("[datasets] No classification target: %s", target.Reason)
	} else {
		clfFeatures := features
		if b.IncludePrice && enriched.Has(models.ColPriceFloat) {
			clfFeatures = append([]string{models.ColPriceFloat}, features...)
		}
		clf, err := enriched.Select(append([]string{target.Column}, clfFeatures...)...)
		if err != nil {
			return nil, fmt.Errorf("datasets: classification: %w", err)
		}
		col, _ := clf.Column(target.Column)
		if err := clf.Set(binaryLabel(BoolLettersColumn(col))); err != nil {
			return nil, fmt.Errorf("datasets: classification: %w", err)
		}
		if out.Classification, err = clf.DropNull(target.Column); err != nil {
			return nil, fmt.Errorf("datasets: classification: %w", err)
		}
		out.ClassTarget = target.Column
	}

	b.logger.Info("[datasets] Regression: %d rows x %d cols | Classification (%s): %d rows x %d cols",
		out.Regression.NumRows(), out.Regression.NumCols(), target.Reason,
		out.Classification.NumRows(), out.Classification.NumCols())
	return out, nil
}

// present keeps the names that exist in t, in allowlist order.
func present(t *models.Table, names []string) []string {
	var out []string
	for _, n := range names {
		if t.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// binaryLabel coerces a target column to int 0/1. The label is binary by
// construction, so any non-zero number narrows to 1 rather than keeping its
// value. Text that survived letter parsing is not a label and becomes missing.
func binaryLabel(c *models.Column) *models.Column {
	values := make([]models.Value, c.Len())
	for i, v := range c.Values {
		f, ok := v.AsFloat(c.Type)
		switch {
		case !ok:
			values[i] = models.Null()
		case f != 0:
			values[i] = models.Int(1)
		default:
			values[i] = models.Int(0)
		}
	}
	return models.NewColumn(c.Name, models.TypeInt, values)
}
