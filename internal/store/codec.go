package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeFormat is the fixed-width UTC form used to persist timestamps in
// JSON documents. Byte order of formatted values equals time order.
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// stamp returns a copy of fields with ServerTimestamp sentinels replaced
// by now in UTC.
func stamp(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now.UTC()
			continue
		}
		out[k] = v
	}
	return out
}

// orderKey returns the sortable text form of an order field value.
func orderKey(v any) (string, bool) {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(TimeFormat), true
	case string:
		return val, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

// timeFields returns the names and values of the time-valued fields.
func timeFields(fields Fields) map[string]time.Time {
	out := make(map[string]time.Time)
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			out[k] = t.UTC()
		}
	}
	return out
}

// encodeFields marshals fields to JSON with timestamps in TimeFormat.
func encodeFields(fields Fields) ([]byte, error) {
	doc := make(map[string]any, len(fields))
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			doc[k] = t.UTC().Format(TimeFormat)
			continue
		}
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return data, nil
}

// decodeFields unmarshals a JSON document produced by encodeFields.
func decodeFields(data []byte) (Fields, error) {
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}
