package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"airbnb-features/models"
	"airbnb-features/utils"
)

// ReportService summarises the artifacts of a pipeline run.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds a RunReport from the named artifacts. names fixes the order
// of the shape listing; artifacts missing from tables are skipped.
func (s *ReportService) Generate(runID string, names []string, tables map[string]*models.Table) *models.RunReport {
	report := &models.RunReport{
		RunID:          runID,
		ClassBalance:   make(map[int64]int),
		ListingsByRoom: make(map[string]int),
	}

	for _, name := range names {
		t, ok := tables[name]
		if !ok {
			continue
		}
		report.Artifacts = append(report.Artifacts, models.ArtifactShape{Name: name, Rows: t.NumRows(), Cols: t.NumCols()})
	}

	if enriched, ok := tables[models.ArtifactEnriched]; ok {
		report.EnrichedRows = enriched.NumRows()
		if rooms, ok := enriched.Column(models.ColRoomType); ok {
			for _, v := range rooms.Values {
				if !v.Null && v.Format(rooms.Type) != "" {
					report.ListingsByRoom[v.Format(rooms.Type)]++
				}
			}
		}
	}

	if y, ok := firstColumn(tables[models.ArtifactYReg]); ok {
		report.Price = columnStats(y)
		report.PricedListings = report.Price.Count
	}

	if y, ok := firstColumn(tables[models.ArtifactYClf]); ok {
		report.ClassTarget = y.Name
		for _, v := range y.Values {
			if !v.Null {
				report.ClassBalance[v.I]++
			}
		}
	}

	report.TrainRegression = tables[models.ArtifactYTrainReg].NumRows()
	report.TestRegression = tables[models.ArtifactYTestReg].NumRows()
	report.TrainClassifier = tables[models.ArtifactYTrainClf].NumRows()
	report.TestClassifier = tables[models.ArtifactYTestClf].NumRows()
	return report
}

func firstColumn(t *models.Table) (*models.Column, bool) {
	if t.NumCols() == 0 || t.IsEmpty() {
		return nil, false
	}
	return t.Columns()[0], true
}

func columnStats(c *models.Column) models.ColumnStats {
	var st models.ColumnStats
	var total float64
	for _, v := range c.Values {
		f, ok := v.AsFloat(c.Type)
		if !ok {
			continue
		}
		if st.Count == 0 || f < st.Min {
			st.Min = f
		}
		if st.Count == 0 || f > st.Max {
			st.Max = f
		}
		total += f
		st.Count++
	}
	if st.Count > 0 {
		st.Mean = round2(total / float64(st.Count))
		st.Min = round2(st.Min)
		st.Max = round2(st.Max)
	}
	return st
}

// Print writes the report in the same boxed layout as the rest of the CLI output.
func (s *ReportService) Print(w io.Writer, r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 FEATURE PIPELINE RUN %s\033[0m\n", r.RunID)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Artifacts\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, a := range r.Artifacts {
		fmt.Fprintf(w, "  %-30s %7d rows x %4d cols\n", a.Name, a.Rows, a.Cols)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Regression label (price per night)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Price.Count > 0 {
		fmt.Fprintf(w, "  Priced listings : \033[1m%d\033[0m of %d\n", r.PricedListings, r.EnrichedRows)
		fmt.Fprintf(w, "  Average price   : \033[1;32m$%.2f\033[0m\n", r.Price.Mean)
		fmt.Fprintf(w, "  Minimum price   : \033[1;32m$%.2f\033[0m\n", r.Price.Min)
		fmt.Fprintf(w, "  Maximum price   : \033[1;32m$%.2f\033[0m\n", r.Price.Max)
		fmt.Fprintf(w, "  Train / test    : %d / %d\n", r.TrainRegression, r.TestRegression)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Classification label\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.ClassTarget == "" {
		fmt.Fprintf(w, "  No classification target found\n")
	} else {
		fmt.Fprintf(w, "  Target       : %s\n", r.ClassTarget)
		classes := make([]int64, 0, len(r.ClassBalance))
		for c := range r.ClassBalance {
			classes = append(classes, c)
		}
		sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
		for _, c := range classes {
			fmt.Fprintf(w, "  Class %d      : %d\n", c, r.ClassBalance[c])
		}
		fmt.Fprintf(w, "  Train / test : %d / %d\n", r.TrainClassifier, r.TestClassifier)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Room Type\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByRoom) == 0 {
		fmt.Fprintf(w, "  No room type data\n")
	} else {
		type roomCount struct {
			room  string
			count int
		}
		var rooms []roomCount
		for room, cnt := range r.ListingsByRoom {
			rooms = append(rooms, roomCount{room, cnt})
		}
		sort.Slice(rooms, func(i, j int) bool {
			if rooms[i].count != rooms[j].count {
				return rooms[i].count > rooms[j].count
			}
			return rooms[i].room < rooms[j].room
		})
		for _, rc := range rooms {
			fmt.Fprintf(w, "  %-30s %6d\n", truncate(rc.room, 28), rc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
