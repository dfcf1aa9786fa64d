package perspectives

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
)

// Filters maps a perspective question id to the answers it accepts.
// A question with no accepted answers is inactive.
type Filters map[int64][]string

// Active returns the question ids that constrain matching, in ascending order.
func (f Filters) Active() []int64 {
	ids := make([]int64, 0, len(f))
	for id, values := range f {
		if len(values) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ParseFilters decodes a JSON object of question id to an accepted value or
// list of values. Booleans are matched as "Yes" and "No", numbers by their
// decimal text.
func ParseFilters(data []byte) (Filters, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode perspective filters: %w", err)
	}

	f := make(Filters, len(raw))
	for key, value := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("perspective filter question %q: %w", key, err)
		}

		values, ok := value.([]any)
		if !ok {
			values = []any{value}
		}

		accepted := make([]string, 0, len(values))
		for _, v := range values {
			accepted = append(accepted, answerText(v))
		}
		f[id] = accepted
	}

	return f, nil
}

// UnmarshalJSON decodes f with the rules of ParseFilters.
func (f *Filters) UnmarshalJSON(data []byte) error {
	parsed, err := ParseFilters(data)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FiltersFromQuery reads the perspective_filters query parameter.
// A missing parameter yields nil filters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	raw := values.Get("perspective_filters")
	if raw == "" {
		return nil, nil
	}
	return ParseFilters([]byte(raw))
}

func answerText(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
