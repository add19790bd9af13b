package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
)

// BuildQuery serializes params into "?k=v&..." sorted by key. Nil values, nil
// pointers and empty strings are dropped so an unset filter is never sent as
// a literal empty filter. It returns "" when nothing remains.
func BuildQuery(params map[string]any) string {
	values := url.Values{}
	for key, value := range params {
		if s, ok := queryValue(value); ok {
			values.Set(key, s)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func queryValue(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		value = rv.Elem().Interface()
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", false
	}
	return s, true
}
