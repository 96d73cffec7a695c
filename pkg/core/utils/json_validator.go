package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// RepairJSON attempts to fix common JSON errors in hand-edited payloads.
// Uses github.com/RealAlexandreAI/json-repair.
// Supported repairs:
// - Missing quotes around keys
// - Single quotes instead of double quotes
// - Unclosed arrays/objects
// - Trailing commas
// - Comments in JSON
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
// Admin-maintained tariff tables are written in Hjson so they can carry
// comments citing the legal text they come from.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	err := hjson.Unmarshal([]byte(hjsonData), &result)
	if err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}

	return string(jsonBytes), nil
}

// SmartParse tries multiple parsing strategies to decode input into out.
// Order of attempts:
// 1. Standard JSON parse
// 2. JSON repair
// 3. Hjson parse (most lenient)
func SmartParse(input string, out interface{}) error {
	// Try 1: Standard JSON
	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	// Try 2: JSON Repair
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return nil
		}
	}

	// Try 3: Hjson
	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}

// DecodeConfigFile reads path and decodes it into out, choosing the format
// by extension: .yaml/.yml (yaml tags), .hjson and .json (json tags).
// A .json file that fails strict parsing gets one repair pass.
func DecodeConfigFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeConfig(filepath.Ext(path), data, out)
}

// DecodeConfig decodes data according to ext (".yaml", ".yml", ".hjson", ".json").
func DecodeConfig(ext string, data []byte, out interface{}) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("YAML_PARSE_ERROR: %v", err)
		}
		return nil

	case ".hjson":
		converted, err := ParseHJSON(string(data))
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(converted), out); err != nil {
			return fmt.Errorf("JSON_UNMARSHAL_ERROR: %v", err)
		}
		return nil

	case ".json":
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
		repaired, err := RepairJSON(string(data))
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(repaired), out); err != nil {
			return fmt.Errorf("JSON_UNMARSHAL_ERROR: %v", err)
		}
		return nil
	}

	return fmt.Errorf("unsupported config format %q", ext)
}
