// ABOUTME: Request URL construction for the Sveriges Radio API.
// ABOUTME: Merges default and caller query parameters and renders scalar values.

package srclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Params holds query parameters for a request. Nil values and nil pointers
// are left out of the query string.
type Params map[string]any

// buildURL resolves endpoint against base and appends the merged parameters.
// The result doubles as the cache key.
func buildURL(base *url.URL, endpoint string, defaults, params Params) string {
	u := *base
	u.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(endpoint, "/")
	u.RawPath = ""

	merged := make(Params, len(defaults)+len(params))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}

	query := url.Values{}
	for k, v := range merged {
		s, ok := formatParam(v)
		if !ok {
			continue
		}
		query.Add(k, s)
	}
	u.RawQuery = query.Encode()
	u.Fragment = ""

	return u.String()
}

// formatParam renders a scalar parameter value. Returns false for absent values.
func formatParam(v any) (string, bool) {
	if v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case fmt.Stringer:
		return val.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	}

	return fmt.Sprint(v), true
}
