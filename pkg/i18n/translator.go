package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NameTranslator resolves display names. Missing keys are echoed back.
type NameTranslator interface {
	Translate(key string) string
}

// HasTranslation reports whether t knows a localized name for key. A nil
// translator knows nothing.
func HasTranslation(t NameTranslator, key string) bool {
	if t == nil || key == "" {
		return false
	}
	return t.Translate(key) != key
}

// DisplayName returns the translated name, or key itself when none exists.
func DisplayName(t NameTranslator, key string) string {
	if !HasTranslation(t, key) {
		return key
	}
	return t.Translate(key)
}

// Dictionary is an in-memory NameTranslator.
type Dictionary map[string]string

func (d Dictionary) Translate(key string) string {
	if v, ok := d[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return key
}

// ParseDictionary decodes a flat JSON object of key to display name.
func ParseDictionary(data []byte) (Dictionary, error) {
	out := Dictionary{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return out, nil
}

// LoadDictionary reads a dictionary file. An empty path yields an empty dictionary.
func LoadDictionary(path string) (Dictionary, error) {
	if strings.TrimSpace(path) == "" {
		return Dictionary{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return ParseDictionary(data)
}
