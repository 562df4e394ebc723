package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"airbnb-features/models"
)

// currencyStripper removes the symbols that wrap listing prices such as "$1,200.00".
var currencyStripper = strings.NewReplacer("$", "", ",", "")

// dateLayouts are tried in order when decomposing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"January 2, 2006",
}

// parseCurrency turns a price string into a float. ok is false for anything
// that is not a number once the currency symbols are gone.
func parseCurrency(raw string) (float64, bool) {
	s := strings.TrimSpace(currencyStripper.Replace(raw))
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// CurrencyColumn parses a text price column into floats. Columns that are
// already numeric come back unchanged.
func CurrencyColumn(c *models.Column) *models.Column {
	if c.Type != models.TypeString {
		return c.Clone()
	}
	values := make([]models.Value, c.Len())
	for i, v := range c.Values {
		if v.Null {
			values[i] = models.Null()
			continue
		}
		if f, ok := parseCurrency(v.S); ok {
			values[i] = models.Float(f)
		} else {
			values[i] = models.Null()
		}
	}
	return models.NewColumn(c.Name, models.TypeFloat, values)
}

// BoolLettersColumn maps "t" to true and "f" to false on a text column. Any
// other cell becomes missing. Non-text columns come back unchanged.
func BoolLettersColumn(c *models.Column) *models.Column {
	if c.Type != models.TypeString {
		return c.Clone()
	}
	values := make([]models.Value, c.Len())
	for i, v := range c.Values {
		switch {
		case v.Null:
			values[i] = models.Null()
		case v.S == "t":
			values[i] = models.Bool(true)
		case v.S == "f":
			values[i] = models.Bool(false)
		default:
			values[i] = models.Null()
		}
	}
	return models.NewColumn(c.Name, models.TypeBool, values)
}

// parseDate reads a calendar date in any of the accepted layouts.
func parseDate(v models.Value, t models.Type) (time.Time, bool) {
	if v.Null || t != models.TypeString {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.S)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// weekdayMondayFirst converts Go's Sunday=0 weekday to 0=Monday..6=Sunday.
func weekdayMondayFirst(d time.Time) int64 {
	return int64((d.Weekday() + 6) % 7)
}

// DatePartColumns decomposes a date column into <name>_year, <name>_month and
// <name>_dow. Cells that do not parse give missing parts.
func DatePartColumns(c *models.Column) (year, month, dow *models.Column) {
	n := c.Len()
	years := make([]models.Value, n)
	months := make([]models.Value, n)
	dows := make([]models.Value, n)
	for i, v := range c.Values {
		d, ok := parseDate(v, c.Type)
		if !ok {
			years[i], months[i], dows[i] = models.Null(), models.Null(), models.Null()
			continue
		}
		years[i] = models.Int(int64(d.Year()))
		months[i] = models.Int(int64(d.Month()))
		dows[i] = models.Int(weekdayMondayFirst(d))
	}
	return models.NewColumn(c.Name+"_year", models.TypeInt, years),
		models.NewColumn(c.Name+"_month", models.TypeInt, months),
		models.NewColumn(c.Name+"_dow", models.TypeInt, dows)
}

// yearColumn keeps just the year part of a date column under a new name.
func yearColumn(c *models.Column, name string) *models.Column {
	year, _, _ := DatePartColumns(c)
	year.Name = name
	return year
}
