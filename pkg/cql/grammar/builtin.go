package grammar

// DefaultVersion is the version used when none is configured.
const DefaultVersion = "1.5.3"

var baseKeywords = []string{
	"after", "aggregate", "all", "and", "as", "asc", "ascending", "before",
	"between", "by", "called", "case", "cast", "code", "codesystem",
	"codesystems", "collapse", "concept", "contains", "context", "date", "day",
	"days", "default", "define", "desc", "descending", "difference", "display",
	"distinct", "div", "duration", "during", "else", "end", "ends", "except",
	"exists", "expand", "false", "flatten", "from", "function", "hour", "hours",
	"if", "implies", "in", "include", "includes", "included", "intersect", "is",
	"less", "let", "library", "maximum", "meets", "millisecond", "milliseconds",
	"minimum", "minute", "minutes", "mod", "month", "months", "more", "not",
	"null", "occurs", "of", "on", "or", "overlaps", "parameter", "per", "point",
	"predecessor", "private", "properly", "public", "return", "returns", "same",
	"second", "seconds", "singleton", "sort", "start", "starts", "such",
	"successor", "than", "that", "then", "time", "timezoneoffset", "to", "true",
	"union", "using", "valueset", "version", "week", "weeks", "when", "where",
	"width", "with", "within", "without", "xor", "year", "years",
}

var baseFunctions = []string{
	"Abs", "AgeInDays", "AgeInDaysAt", "AgeInHours", "AgeInMinutes",
	"AgeInMonths", "AgeInMonthsAt", "AgeInWeeks", "AgeInYears", "AgeInYearsAt",
	"AllTrue", "AnyTrue", "Avg", "CalculateAgeInDays", "CalculateAgeInMonths",
	"CalculateAgeInYears", "CalculateAgeInYearsAt", "Ceiling", "Coalesce",
	"Combine", "Count", "EndsWith", "Exp", "First", "Floor", "IndexOf", "IsFalse",
	"IsNull", "IsTrue", "Last", "LastPositionOf", "Length", "Ln", "Log", "Lower",
	"Matches", "Max", "Median", "Message", "Min", "Mode", "Now",
	"PopulationStdDev", "PopulationVariance", "PositionOf", "Power", "Round",
	"Split", "SplitOnMatches", "StartsWith", "StdDev", "Substring", "Sum",
	"TimeOfDay", "ToBoolean", "ToConcept", "ToDate", "ToDateTime", "ToDecimal",
	"ToInteger", "ToQuantity", "ToString", "ToTime", "Today", "Truncate", "Upper",
	"Variance",
}

var baseDataTypes = []string{
	"Any", "Boolean", "Code", "Concept", "Date", "DateTime", "Decimal", "Integer",
	"Interval", "List", "Quantity", "Ratio", "String", "Time", "Tuple", "Choice",
}

var baseOperators = []string{
	"<=", ">=", "!=", "!~", "~", "=", "<", ">", "+", "-", "*", "/", "^", "&", "|",
}

// Builtin returns the built-in grammar definitions in registration order.
// Each call builds fresh definitions.
func Builtin() []*Definition {
	v130 := NewBuilder("1.3.0").
		Keywords(baseKeywords...).
		Functions(baseFunctions...).
		DataTypes(baseDataTypes...).
		Operators(baseOperators...).
		MustBuild()

	v140 := NewBuilder("1.4.0").
		Extend(v130).
		Functions(
			"ConvertsToBoolean", "ConvertsToDate", "ConvertsToDateTime",
			"ConvertsToDecimal", "ConvertsToInteger", "ConvertsToQuantity",
			"ConvertsToRatio", "ConvertsToString", "ConvertsToTime", "ToRatio",
			"Descendents", "Children",
		).
		Keywords("timezone").
		MustBuild()

	v153 := NewBuilder("1.5.3").
		Extend(v140).
		Keywords("fluent").
		Functions(
			"ToLong", "ConvertsToLong", "Precision", "LowBoundary", "HighBoundary",
			"Product", "GeometricMean", "ExpandValueSet", "Size",
		).
		DataTypes("Long").
		MustBuild()

	v200 := NewBuilder("2.0.0-ballot").
		Extend(v153).
		Functions("InValueSet", "AnyInValueSet", "InCodeSystem", "AnyInCodeSystem").
		DataTypes("ValueSet", "CodeSystem", "Vocabulary").
		MustBuild()

	return []*Definition{v130, v140, v153, v200}
}
