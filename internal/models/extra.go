package models

import (
	"encoding/json"
)

// Extra carries the free-form fields a document holds beyond the ones the API
// understands. It is inlined into the BSON document and flattened into the JSON object.
type Extra map[string]interface{}

// marshalWithExtra encodes known and merges extra into the same JSON object.
// Known fields win on a key clash.
func marshalWithExtra(known interface{}, extra Extra) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	merged := make(map[string]interface{}, len(fields)+len(extra))
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// decodeWithExtra decodes data into known and returns every key not listed in
// knownKeys. A client supplied _id is dropped so the database assigns one.
func decodeWithExtra(data []byte, known interface{}, knownKeys ...string) (Extra, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	delete(fields, "_id")

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cleaned, known); err != nil {
		return nil, err
	}

	for _, k := range knownKeys {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	extra := make(Extra, len(fields))
	for k, raw := range fields {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		extra[k] = v
	}
	return extra, nil
}
