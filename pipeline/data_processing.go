package pipeline

import (
	"airbnb-features/models"
	"airbnb-features/services"
	"airbnb-features/utils"
)

// Options configures the data processing pipeline.
type Options struct {
	Split                        services.SplitOptions
	IncludePriceInClassification bool
}

// SplitOutputs are the eight artifacts of the split stage, in port order.
var SplitOutputs = []string{
	models.ArtifactXTrainReg, models.ArtifactXTestReg, models.ArtifactYTrainReg, models.ArtifactYTestReg,
	models.ArtifactXTrainClf, models.ArtifactXTestClf, models.ArtifactYTrainClf, models.ArtifactYTestClf,
}

// DataProcessing builds the full feature pipeline: clean listings, aggregate
// the calendar, enrich, build datasets, build matrices and split.
func DataProcessing(logger *utils.Logger, opts Options) (*Graph, error) {
	cleaner := services.NewListingsCleaner(logger)
	calendar := services.NewCalendarAggregator(logger)
	enricher := services.NewFeatureEnricher(logger)
	builder := services.NewDatasetBuilder(logger)
	builder.IncludePrice = opts.IncludePriceInClassification
	matrices := services.NewMatrixBuilder(logger)
	splitter := services.NewSplitter(logger, opts.Split)

	g := New(logger)
	nodes := []Node{
		{
			Name:    "clean_listings",
			Inputs:  []string{models.ArtifactListings},
			Outputs: []string{models.ArtifactListingsClean},
			Run: func(in []*models.Table) ([]*models.Table, error) {
				out, err := cleaner.Clean(in[0])
				return []*models.Table{out}, err
			},
		},
		{
			Name:    "calendar_agg",
			Inputs:  []string{models.ArtifactCalendar},
			Outputs: []string{models.ArtifactCalendarAgg},
			Run: func(in []*models.Table) ([]*models.Table, error) {
				out, err := calendar.Aggregate(in[0])
				return []*models.Table{out}, err
			},
		},
		{
			Name:    "engineer_features",
			Inputs:  []string{models.ArtifactListingsClean, models.ArtifactCalendarAgg, models.ArtifactReviews},
			Outputs: []string{models.ArtifactEnriched},
			Run: func(in []*models.Table) ([]*models.Table, error) {
				out, err := enricher.Enrich(in[0], in[1], in[2])
				return []*models.Table{out}, err
			},
		},
		{
			Name:    "build_primary_datasets",
			Inputs:  []string{models.ArtifactEnriched},
			Outputs: []string{models.ArtifactRegression, models.ArtifactClassification},
			Run: func(in []*models.Table) ([]*models.Table, error) {
				ds, err := builder.Build(in[0])
				if err != nil {
					return nil, err
				}
				return []*models.Table{ds.Regression, ds.Classification}, nil
			},
		},
		{
			Name:    "make_feature_matrices",
			Inputs:  []string{models.ArtifactRegression, models.ArtifactClassification},
			Outputs: []string{models.ArtifactXReg, models.ArtifactYReg, models.ArtifactXClf, models.ArtifactYClf},
			Run: func(in []*models.Table) ([]*models.Table, error) {
				ds := &services.Datasets{Regression: in[0], Classification: in[1]}
				if target := services.Resolve(in[1], services.TargetPreference...); target.Found {
					ds.ClassTarget = target.Column
				}
				reg, clf, err := matrices.Build(ds)
				if err != nil {
					return nil, err
				}
				return []*models.Table{reg.Features, reg.LabelTable(), clf.Features, clf.LabelTable()}, nil
			},
		},
		{
			Name:    "make_splits",
			Inputs:  []string{models.ArtifactXReg, models.ArtifactYReg, models.ArtifactXClf, models.ArtifactYClf},
			Outputs: SplitOutputs,
			Run: func(in []*models.Table) ([]*models.Table, error) {
				reg := matrixFrom(in[0], in[1], models.ColPriceFloat, models.TypeFloat)
				clf := matrixFrom(in[2], in[3], services.TargetPreference[0], models.TypeInt)
				s, err := splitter.Split(reg, clf)
				if err != nil {
					return nil, err
				}
				r, c := s.Regression, s.Classification
				return []*models.Table{
					r.XTrain, r.XTest, models.MustTable(r.YTrain), models.MustTable(r.YTest),
					c.XTrain, c.XTest, models.MustTable(c.YTrain), models.MustTable(c.YTest),
				}, nil
			},
		},
	}
	for _, n := range nodes {
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// matrixFrom rebuilds a FeatureMatrix from its features and single-column label table.
func matrixFrom(x, y *models.Table, label string, labelType models.Type) *services.FeatureMatrix {
	m := &services.FeatureMatrix{Features: x, Label: models.NewColumn(label, labelType, nil)}
	if y.NumCols() > 0 {
		m.Label = y.Columns()[0]
	}
	if m.Features == nil {
		m.Features = models.EmptyTable()
	}
	return m
}
