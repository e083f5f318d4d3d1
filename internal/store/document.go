package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

const maxKeyLength = 190

var (
	errPayloadNotObject = errors.New("payload is not a JSON object")
	errMissingKey       = errors.New("payload has no key field")
	errKeyNotString     = errors.New("key field is not a string")
	errEmptyKey         = errors.New("key field is empty")
	errKeyTooLong       = errors.New("key field exceeds storage bounds")
)

// document is the row shape shared by every collection table. Sequence records first insertion
// and survives replacement, which gives GetAll its stable order.
type document struct {
	Key              string         `gorm:"column:record_key;primaryKey;size:190;not null"`
	Sequence         int64          `gorm:"column:seq;not null"`
	Payload          datatypes.JSON `gorm:"column:payload_json;not null"`
	WrittenAtSeconds int64          `gorm:"column:written_at_s;not null"`
}

// extractKey compacts payload and returns it with the string value found at keyPath.
func extractKey(payload []byte, keyPath string) (string, []byte, error) {
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, payload); err != nil {
		return "", nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(compacted.Bytes(), &fields); err != nil || fields == nil {
		return "", nil, errPayloadNotObject
	}
	rawKey, ok := fields[keyPath]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", errMissingKey, keyPath)
	}
	var key string
	if err := json.Unmarshal(rawKey, &key); err != nil {
		return "", nil, fmt.Errorf("%w: %s", errKeyNotString, keyPath)
	}
	if strings.TrimSpace(key) == "" {
		return "", nil, fmt.Errorf("%w: %s", errEmptyKey, keyPath)
	}
	if len(key) > maxKeyLength {
		return "", nil, fmt.Errorf("%w: %d characters", errKeyTooLong, len(key))
	}
	return key, compacted.Bytes(), nil
}
