package apiclient

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// QueryParams collects optional query parameters. Setters skip empty and
// zero values so wrappers can pass every option through unconditionally.
type QueryParams struct {
	values url.Values
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{values: url.Values{}}
}

func (q *QueryParams) ensure() {
	if q.values == nil {
		q.values = url.Values{}
	}
}

// Set sets key to value unless value is empty.
func (q *QueryParams) Set(key, value string) *QueryParams {
	if value == "" {
		return q
	}

	q.ensure()
	q.values.Set(key, value)

	return q
}

// SetInt sets key unless value is zero.
func (q *QueryParams) SetInt(key string, value int) *QueryParams {
	if value == 0 {
		return q
	}

	return q.Set(key, strconv.Itoa(value))
}

// SetInt64 sets key unless value is zero.
func (q *QueryParams) SetInt64(key string, value int64) *QueryParams {
	if value == 0 {
		return q
	}

	return q.Set(key, strconv.FormatInt(value, 10))
}

// SetBool sets key to "true" when value is true.
func (q *QueryParams) SetBool(key string, value bool) *QueryParams {
	if !value {
		return q
	}

	return q.Set(key, "true")
}

// SetBoolPtr sets key when value is non-nil, including an explicit false.
func (q *QueryParams) SetBoolPtr(key string, value *bool) *QueryParams {
	if value == nil {
		return q
	}

	return q.Set(key, strconv.FormatBool(*value))
}

// SetUnix sets key to the unix timestamp of value unless value is zero.
func (q *QueryParams) SetUnix(key string, value time.Time) *QueryParams {
	if value.IsZero() {
		return q
	}

	return q.Set(key, strconv.FormatInt(value.Unix(), 10))
}

// SetTime sets key to value formatted as RFC 3339 unless value is zero.
func (q *QueryParams) SetTime(key string, value time.Time) *QueryParams {
	if value.IsZero() {
		return q
	}

	return q.Set(key, value.UTC().Format(time.RFC3339))
}

// SetList sets key to the comma-joined values, skipping empty entries.
func (q *QueryParams) SetList(key string, values []string) *QueryParams {
	return q.Set(key, strings.Join(nonEmpty(values), ","))
}

// AddEach adds one key=value pair per non-empty value (e.g. "expand[]").
func (q *QueryParams) AddEach(key string, values []string) *QueryParams {
	for _, value := range nonEmpty(values) {
		q.ensure()
		q.values.Add(key, value)
	}

	return q
}

// Merge copies every value from other into q.
func (q *QueryParams) Merge(other url.Values) *QueryParams {
	for key, values := range other {
		q.AddEach(key, values)
	}

	return q
}

// ToValues returns the assembled values. The result is never nil.
func (q *QueryParams) ToValues() url.Values {
	if q == nil || q.values == nil {
		return url.Values{}
	}

	return q.values
}

// Encode returns the URL-encoded query string.
func (q *QueryParams) Encode() string {
	return q.ToValues().Encode()
}

// PathJoin joins base with each segment percent-encoded as a single path
// segment, so identifiers containing "/" or "?" cannot escape their slot.
func PathJoin(base string, segments ...string) string {
	var builder strings.Builder

	builder.WriteString(strings.TrimSuffix(base, "/"))

	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}

	return builder.String()
}

// WithQuery appends query to path, using "&" when path already has a query string.
func WithQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}

	if strings.Contains(path, "?") {
		return path + "&" + query.Encode()
	}

	return path + "?" + query.Encode()
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))

	for _, value := range values {
		if value != "" {
			out = append(out, value)
		}
	}

	return out
}
