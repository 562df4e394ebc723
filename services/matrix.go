package services

import (
	"fmt"
	"sort"

	"airbnb-features/models"
	"airbnb-features/utils"
)

// ColumnKind decides how a feature column is imputed and encoded.
type ColumnKind int

const (
	KindContinuous ColumnKind = iota
	KindBooleanTristate
	KindCategorical
)

func (k ColumnKind) String() string {
	switch k {
	case KindContinuous:
		return "continuous"
	case KindBooleanTristate:
		return "boolean-tristate"
	case KindCategorical:
		return "categorical"
	}
	return "unknown"
}

// ClassifyColumn maps a column to its kind from the cell type alone.
func ClassifyColumn(c *models.Column) ColumnKind {
	switch c.Type {
	case models.TypeFloat, models.TypeInt:
		return KindContinuous
	case models.TypeBool:
		return KindBooleanTristate
	}
	return KindCategorical
}

// ImputationReport records the fill values computed for one matrix.
type ImputationReport struct {
	Medians map[string]float64
	Modes   map[string]string
	// Dropped lists columns with no observed value at all.
	Dropped []string
}

// FeatureMatrix is a fully numeric feature table and its label.
type FeatureMatrix struct {
	Features   *models.Table
	Label      *models.Column
	Imputation ImputationReport
}

// IsEmpty reports whether the matrix has no rows.
func (m *FeatureMatrix) IsEmpty() bool { return m == nil || m.Label.Len() == 0 }

// LabelTable wraps the label as a single-column table for persistence.
func (m *FeatureMatrix) LabelTable() *models.Table {
	return models.MustTable(m.Label)
}

// MatrixBuilder turns labelled datasets into imputed, one-hot encoded matrices.
type MatrixBuilder struct {
	logger *utils.Logger
}

func NewMatrixBuilder(logger *utils.Logger) *MatrixBuilder {
	return &MatrixBuilder{logger: logger}
}

// Build produces the regression and classification matrices. Each one is
// imputed with statistics of its own rows only.
func (m *MatrixBuilder) Build(ds *Datasets) (reg, clf *FeatureMatrix, err error) {
	reg, err = m.Matrix(ds.Regression, models.ColPriceFloat, models.TypeFloat)
	if err != nil {
		return nil, nil, fmt.Errorf("matrix: regression: %w", err)
	}

	target := ds.ClassTarget
	if target == "" {
		target = TargetPreference[0]
	}
	clf, err = m.Matrix(ds.Classification, target, models.TypeInt)
	if err != nil {
		return nil, nil, fmt.Errorf("matrix: classification: %w", err)
	}

	m.logger.Info("[matrix] X_reg %d x %d | X_clf %d x %d",
		reg.Features.NumRows(), reg.Features.NumCols(), clf.Features.NumRows(), clf.Features.NumCols())
	return reg, clf, nil
}

// Matrix splits label off dataset, imputes the remaining columns and expands
// categorical ones into 0/1 indicator columns.
func (m *MatrixBuilder) Matrix(dataset *models.Table, label string, labelType models.Type) (*FeatureMatrix, error) {
	out := &FeatureMatrix{
		Features:   models.EmptyTable(),
		Label:      models.NewColumn(label, labelType, nil),
		Imputation: ImputationReport{Medians: map[string]float64{}, Modes: map[string]string{}},
	}
	if dataset.IsEmpty() {
		return out, nil
	}

	labelCol, ok := dataset.Column(label)
	if !ok {
		return nil, fmt.Errorf("label %q: %w", label, models.ErrMissingColumn)
	}
	out.Label = castLabel(labelCol, labelType)

	var numeric, indicators []*models.Column
	for _, col := range dataset.Drop(label).Columns() {
		switch ClassifyColumn(col) {
		case KindContinuous, KindBooleanTristate:
			filled, median, ok := imputeMedian(col)
			if !ok {
				out.Imputation.Dropped = append(out.Imputation.Dropped, col.Name)
				continue
			}
			out.Imputation.Medians[col.Name] = median
			numeric = append(numeric, filled)
		case KindCategorical:
			filled, mode, ok := imputeMode(col)
			if !ok {
				out.Imputation.Dropped = append(out.Imputation.Dropped, col.Name)
				continue
			}
			out.Imputation.Modes[col.Name] = mode
			indicators = append(indicators, oneHot(filled)...)
		}
	}
	if len(out.Imputation.Dropped) > 0 {
		m.logger.Warn("[matrix] Dropped columns without any observed value: %v", out.Imputation.Dropped)
	}

	// features keep the dataset's rows even when no column survives
	features := models.EmptyTableWithRows(dataset.NumRows())
	used := make(map[string]struct{}, len(numeric)+len(indicators))
	for _, c := range numeric {
		used[c.Name] = struct{}{}
	}
	for _, c := range indicators {
		c.Name = uniqueName(used, c.Name)
	}
	for _, c := range append(numeric, indicators...) {
		if err := features.Set(c); err != nil {
			return nil, err
		}
	}
	out.Features = features
	return out, nil
}

// uniqueName returns name, or name with the first free numeric suffix when an
// indicator would shadow another feature, and marks the result as used.
func uniqueName(used map[string]struct{}, name string) string {
	candidate := name
	for i := 1; ; i++ {
		if _, taken := used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	used[candidate] = struct{}{}
	return candidate
}

func castLabel(c *models.Column, typ models.Type) *models.Column {
	values := make([]models.Value, c.Len())
	for i, v := range c.Values {
		f, ok := v.AsFloat(c.Type)
		switch {
		case !ok:
			values[i] = models.Null()
		case typ == models.TypeInt:
			values[i] = models.Int(int64(f))
		default:
			values[i] = models.Float(f)
		}
	}
	return models.NewColumn(c.Name, typ, values)
}

// imputeMedian casts c to float and fills missing cells with the median of
// the observed ones. ok is false when nothing was observed.
func imputeMedian(c *models.Column) (*models.Column, float64, bool) {
	observed := make([]float64, 0, c.Len())
	for _, v := range c.Values {
		if f, ok := v.AsFloat(c.Type); ok {
			observed = append(observed, f)
		}
	}
	if len(observed) == 0 {
		return nil, 0, false
	}
	sort.Float64s(observed)
	mid := len(observed) / 2
	median := observed[mid]
	if len(observed)%2 == 0 {
		median = (observed[mid-1] + observed[mid]) / 2
	}

	values := make([]models.Value, c.Len())
	for i, v := range c.Values {
		if f, ok := v.AsFloat(c.Type); ok {
			values[i] = models.Float(f)
		} else {
			values[i] = models.Float(median)
		}
	}
	return models.NewColumn(c.Name, models.TypeFloat, values), median, true
}

// imputeMode fills missing cells with the most frequent value. Ties go to the
// smallest value so the choice never depends on row order.
func imputeMode(c *models.Column) (*models.Column, string, bool) {
	counts := make(map[string]int)
	for _, v := range c.Values {
		if !v.Null {
			counts[v.Format(c.Type)]++
		}
	}
	if len(counts) == 0 {
		return nil, "", false
	}
	mode, best := "", -1
	for value, n := range counts {
		if n > best || (n == best && value < mode) {
			mode, best = value, n
		}
	}

	values := make([]models.Value, c.Len())
	for i, v := range c.Values {
		if v.Null {
			values[i] = models.Str(mode)
		} else {
			values[i] = models.Str(v.Format(c.Type))
		}
	}
	return models.NewColumn(c.Name, models.TypeString, values), mode, true
}

// oneHot returns one float indicator column per distinct value of c, in
// ascending value order, named <column>_<value>. No category is dropped.
func oneHot(c *models.Column) []*models.Column {
	seen := make(map[string]struct{})
	var categories []string
	for _, v := range c.Values {
		if _, ok := seen[v.S]; !ok {
			seen[v.S] = struct{}{}
			categories = append(categories, v.S)
		}
	}
	sort.Strings(categories)

	cols := make([]*models.Column, len(categories))
	for j, cat := range categories {
		values := make([]models.Value, c.Len())
		for i, v := range c.Values {
			if v.S == cat {
				values[i] = models.Float(1)
			} else {
				values[i] = models.Float(0)
			}
		}
		cols[j] = models.NewColumn(c.Name+"_"+cat, models.TypeFloat, values)
	}
	return cols
}
