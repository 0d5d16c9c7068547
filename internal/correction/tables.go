package correction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// LoadTables reads a rule table and a grammar from JSON files. An empty path
// keeps the corresponding default. The tables are not validated here; pass
// them to NewEngine.
func LoadTables(rulesPath, grammarPath string) ([]Rule, Grammar, error) {
	rules := DefaultRules()
	grammar := DefaultGrammar()

	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, Grammar{}, fmt.Errorf("read rules file: %w", err)
		}
		rules, err = ParseRules(data)
		if err != nil {
			return nil, Grammar{}, err
		}
	}
	if grammarPath != "" {
		data, err := os.ReadFile(grammarPath)
		if err != nil {
			return nil, Grammar{}, fmt.Errorf("read grammar file: %w", err)
		}
		grammar, err = ParseGrammar(data)
		if err != nil {
			return nil, Grammar{}, err
		}
	}
	return rules, grammar, nil
}

// ParseRules decodes a JSON array of rules.
func ParseRules(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := decodeStrict(data, &rules); err != nil {
		return nil, &ConfigError{Field: "rules", Message: "cannot decode rule table", Cause: err}
	}
	return rules, nil
}

// ParseGrammar decodes a JSON grammar object.
func ParseGrammar(data []byte) (Grammar, error) {
	var g Grammar
	if err := decodeStrict(data, &g); err != nil {
		return Grammar{}, &ConfigError{Field: "grammar", Message: "cannot decode grammar", Cause: err}
	}
	return g, nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
