package reliefweb

const (
	filterConnector   = " AND "
	countryField      = "country.name:"
	createdSinceField = "date.created:>="
)

// BuildFilter combines the free-text query, country and minimum creation date into a single
// ReliefWeb filter expression.
//
// Parts are appended in that fixed order and only when their source value is non-empty.
// Values are used literally, no trimming or date validation is performed.
func BuildFilter(query string, countryName string, startDate string) string {
	filter := query

	if countryName != "" {
		filter = appendFilterPart(filter, countryField+countryName)
	}

	if startDate != "" {
		filter = appendFilterPart(filter, createdSinceField+startDate)
	}

	return filter
}

// appendFilterPart joins part onto filter, inserting the connector only between two non-empty values.
func appendFilterPart(filter string, part string) string {
	if filter == "" {
		return part
	}
	if part == "" {
		return filter
	}
	return filter + filterConnector + part
}
