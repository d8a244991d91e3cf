package adapter

import (
	"encoding/json"
)

// JSON defines an interface for JSON encoding to enable mocking
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type realJSON struct{}

// NewJSON creates a JSON codec backed by encoding/json
func NewJSON() JSON {
	return &realJSON{}
}

func (j *realJSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (j *realJSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
