package mapboxglstyle

import (
	"fmt"
)

const (
	FilterOperatorEquals   = "=="
	FilterOperatorNotEqual = "!="
	FilterOperatorAny      = "any"
	FilterOperatorAll      = "all"
	FilterOperatorNone     = "none"
	FilterOperatorIn       = "in"
	FilterOperatorNotIn    = "!in"
	FilterOperatorHas      = "has"
	FilterOperatorNotHas   = "!has"
	FilterOperatorLess     = "<"
	FilterOperatorLessEq   = "<="
	FilterOperatorMore     = ">"
	FilterOperatorMoreEq   = ">="
)

const (
	FilterThingType           = "$type"
	FilterThingTypePoint      = "Point"
	FilterThingTypeLineString = "LineString"
	FilterThingTypePolygon    = "Polygon"
)

/*

    "filter": [
        "all",
        ["==", "$type", "Polygon"],
		["in", "class", "residential", "suburb", "neighbourhood"]
	]

	"filter": ["==", "$type", "Point"],
*/

// Filter is a legacy style filter, as decoded from JSON. Expressions are not supported and show everything.
type Filter interface{}

func getFilterValue(key string, properties map[string]interface{}, geometryType string) (interface{}, bool) {
	if key == FilterThingType {
		return geometryType, true
	}

	value, ok := properties[key]
	return value, ok
}

func filterValuesEqual(a, b interface{}) bool {
	// JSON numbers decode as float64 on both sides; compare everything else by its printed form
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func isIn(base []interface{}, properties map[string]interface{}, geometryType string) bool {
	key, ok := base[1].(string)
	if !ok {
		return false
	}

	value, ok := getFilterValue(key, properties, geometryType)
	if !ok {
		return false
	}

	for _, candidate := range base[2:] {
		if filterValuesEqual(value, candidate) {
			return true
		}
	}
	return false
}

func compareNumbers(operator string, base []interface{}, properties map[string]interface{}, geometryType string) bool {
	key, ok := base[1].(string)
	if !ok {
		return false
	}

	value, ok := getFilterValue(key, properties, geometryType)
	if !ok {
		return false
	}

	a, ok := value.(float64)
	if !ok {
		return false
	}
	b, ok := base[2].(float64)
	if !ok {
		return false
	}

	switch operator {
	case FilterOperatorLess:
		return a < b
	case FilterOperatorLessEq:
		return a <= b
	case FilterOperatorMore:
		return a > b
	default:
		return a >= b
	}
}

func isObjectShown(filter Filter, properties map[string]interface{}, geometryType string) bool {
	if filter == nil {
		return true
	}

	base, ok := filter.([]interface{})
	if !ok || len(base) == 0 {
		return true
	}

	operator, ok := base[0].(string)
	if !ok {
		return true
	}

	switch operator {
	case FilterOperatorEquals, FilterOperatorNotEqual:
		if len(base) != 3 {
			return true
		}
		shown := isIn(base, properties, geometryType)
		if operator == FilterOperatorNotEqual {
			return !shown
		}
		return shown
	case FilterOperatorIn:
		return len(base) >= 2 && isIn(base, properties, geometryType)
	case FilterOperatorNotIn:
		return len(base) < 2 || !isIn(base, properties, geometryType)
	case FilterOperatorHas, FilterOperatorNotHas:
		if len(base) != 2 {
			return true
		}
		key, _ := base[1].(string)
		_, has := getFilterValue(key, properties, geometryType)
		if operator == FilterOperatorNotHas {
			return !has
		}
		return has
	case FilterOperatorLess, FilterOperatorLessEq, FilterOperatorMore, FilterOperatorMoreEq:
		if len(base) != 3 {
			return true
		}
		return compareNumbers(operator, base, properties, geometryType)
	case FilterOperatorAny:
		for _, subFilterComponent := range base[1:] {
			shown := isObjectShown(subFilterComponent, properties, geometryType)
			if shown {
				return true
			}
		}
		return false
	case FilterOperatorAll:
		for _, subFilterComponent := range base[1:] {
			shown := isObjectShown(subFilterComponent, properties, geometryType)
			if !shown {
				return false
			}
		}
		return true
	case FilterOperatorNone:
		for _, subFilterComponent := range base[1:] {
			shown := isObjectShown(subFilterComponent, properties, geometryType)
			if shown {
				return false
			}
		}
		return true
	default:
		return true
	}
}
