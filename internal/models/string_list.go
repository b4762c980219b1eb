package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// CategoryList decodes a book's category field whether it was stored as a
// single string or as an array of strings.
type CategoryList []string

func (s *CategoryList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*s = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			*s = []string{trimmed}
		} else {
			*s = []string{}
		}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into CategoryList", t)
	}
}

// MarshalBSONValue always writes an array.
func (s CategoryList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == nil {
		return bson.MarshalValue([]string{})
	}
	return bson.MarshalValue([]string(s))
}

// UnmarshalJSON accepts the same string-or-array shapes as the BSON decoder.
func (s *CategoryList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			*s = []string{trimmed}
		} else {
			*s = []string{}
		}
		return nil
	default:
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*s = values
		return nil
	}
}

func (s CategoryList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
