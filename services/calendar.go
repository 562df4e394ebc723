package services

import (
	"fmt"

	"airbnb-features/models"
	"airbnb-features/utils"
)

// CalendarAggregator reduces daily availability rows to one row per listing.
type CalendarAggregator struct {
	logger *utils.Logger
}

func NewCalendarAggregator(logger *utils.Logger) *CalendarAggregator {
	return &CalendarAggregator{logger: logger}
}

// emptyCalendarAggregate is returned when the calendar has no usable key.
func emptyCalendarAggregate() *models.Table {
	return models.MustTable(
		models.NewColumn(models.ColListingID, models.TypeString, nil),
		models.NewColumn(models.ColBookingRate, models.TypeFloat, nil),
		models.NewColumn(models.ColMeanDailyPrice, models.TypeFloat, nil),
		models.NewColumn(models.ColDays, models.TypeInt, nil),
	)
}

// Aggregate computes booking_rate, mean_daily_price and days per listing. A
// day counts as booked when available is "f".
func (a *CalendarAggregator) Aggregate(calendar *models.Table) (*models.Table, error) {
	key := Resolve(calendar, CalendarKeyPreference...)
	if !key.Found {
		a.logger.Warn("[calendar] No grouping key: %s. Returning an empty aggregate", key.Reason)
		return emptyCalendarAggregate(), nil
	}

	cal := calendar.Clone()
	var booked, price *models.Column
	if col, ok := cal.Column(models.ColAvailable); ok {
		booked = bookedColumn(col)
	}
	if col, ok := cal.Column(models.ColPrice); ok {
		price = CurrencyColumn(col).Renamed(models.ColPriceFloat)
	}

	groups, err := cal.GroupBy(key.Column)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	keyCol, _ := cal.Column(key.Column)

	keys := make([]models.Value, len(groups))
	rates := make([]models.Value, len(groups))
	means := make([]models.Value, len(groups))
	days := make([]models.Value, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
		rates[i] = meanOf(booked, g.Rows)
		means[i] = meanOf(price, g.Rows)
		days[i] = models.Int(int64(len(g.Rows)))
	}

	agg, err := models.NewTable(
		models.NewColumn(models.ColListingID, keyCol.Type, keys),
		models.NewColumn(models.ColBookingRate, models.TypeFloat, rates),
		models.NewColumn(models.ColMeanDailyPrice, models.TypeFloat, means),
		models.NewColumn(models.ColDays, models.TypeInt, days),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	a.logger.Info("[calendar] Aggregated %d calendar rows into %d listings (%s)",
		calendar.NumRows(), agg.NumRows(), key.Reason)
	return agg, nil
}

func bookedColumn(available *models.Column) *models.Column {
	values := make([]models.Value, available.Len())
	for i, v := range available.Values {
		if !v.Null && available.Type == models.TypeString && v.S == "f" {
			values[i] = models.Int(1)
		} else {
			values[i] = models.Int(0)
		}
	}
	return models.NewColumn(models.ColBooked, models.TypeInt, values)
}

// meanOf averages the non-missing cells of c at rows. A nil column or a group
// without any value yields missing.
func meanOf(c *models.Column, rows []int) models.Value {
	if c == nil {
		return models.Null()
	}
	var sum float64
	n := 0
	for _, r := range rows {
		if f, ok := c.Values[r].AsFloat(c.Type); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return models.Null()
	}
	return models.Float(sum / float64(n))
}
