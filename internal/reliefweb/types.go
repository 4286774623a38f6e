package reliefweb

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/jahirul76/reliefweb-mcp/internal/errors"
)

const (
	// DefaultBaseURL is the public ReliefWeb API (v2).
	DefaultBaseURL = "https://api.reliefweb.int/v2"

	// DefaultLimit is the fixed page size requested from the search endpoints.
	DefaultLimit = 5

	// SentinelErrorBody stands in for a document whose fetch failed.
	SentinelErrorBody = `{"error": "request failed"}`

	queryOperator  = "AND"
	presetLatest   = "latest"
	profileMinimal = "minimal"
)

// Endpoint identifies a ReliefWeb search resource.
type Endpoint string

const (
	EndpointDisasters Endpoint = "disasters"
	EndpointReports   Endpoint = "reports"
)

// Validate returns an error if e is not one of the supported endpoints.
func (e Endpoint) Validate() error {
	switch e {
	case EndpointDisasters, EndpointReports:
		return nil
	default:
		return fmt.Errorf("%w: '%s'", errors.ErrUnknownEndpoint, string(e))
	}
}

func (e Endpoint) String() string {
	return string(e)
}

// SearchParams are the caller supplied search inputs. Any of them may be empty.
type SearchParams struct {
	Query       string
	CountryName string
	StartDate   string
}

// RequestParams builds the query string parameters sent to a search endpoint.
func RequestParams(appName string, p SearchParams) url.Values {
	v := url.Values{}
	v.Set("appname", appName)
	v.Set("query[value]", BuildFilter(p.Query, p.CountryName, p.StartDate))
	v.Set("query[operator]", queryOperator)
	v.Set("preset", presetLatest)
	v.Set("profile", profileMinimal)
	v.Set("limit", strconv.Itoa(DefaultLimit))

	return v
}
