package storage

import (
	"strconv"
	"strings"

	"airbnb-features/models"
)

// missingMarkers are the text cells read as missing, the same set pandas uses.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

func isMissing(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}

// InferColumn picks the narrowest type that fits every non-missing cell:
// int, then float, then bool, else string. A column with rows but no values is
// float; a column without rows is string.
func InferColumn(name string, raw []string) *models.Column {
	if len(raw) == 0 {
		return models.NewColumn(name, models.TypeString, nil)
	}

	isInt, isFloat, isBool, seen := true, true, true, false
	for _, s := range raw {
		if isMissing(s) {
			continue
		}
		seen = true
		s = strings.TrimSpace(s)
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBoolText(s); !ok {
				isBool = false
			}
		}
	}

	typ := models.TypeString
	switch {
	case !seen:
		typ = models.TypeFloat
	case isInt:
		typ = models.TypeInt
	case isFloat:
		typ = models.TypeFloat
	case isBool:
		typ = models.TypeBool
	}

	values := make([]models.Value, len(raw))
	for i, s := range raw {
		values[i] = convertCell(s, typ)
	}
	return models.NewColumn(name, typ, values)
}

func convertCell(s string, typ models.Type) models.Value {
	if isMissing(s) {
		return models.Null()
	}
	t := strings.TrimSpace(s)
	switch typ {
	case models.TypeInt:
		n, _ := strconv.ParseInt(t, 10, 64)
		return models.Int(n)
	case models.TypeFloat:
		f, _ := strconv.ParseFloat(t, 64)
		return models.Float(f)
	case models.TypeBool:
		b, _ := parseBoolText(t)
		return models.Bool(b)
	}
	return models.Str(s)
}

// parseBoolText accepts the spelled-out booleans only; "t" and "f" stay text
// so the cleaner can decide what they mean.
func parseBoolText(s string) (bool, bool) {
	switch s {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}
