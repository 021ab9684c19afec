package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyPrompt is returned for scenarios without a prompt.
var ErrEmptyPrompt = errors.New("scenario prompt is required")

// Scenario is a reproducible autonomous run.
//
//	name: s3_log_bucket
//	prompt: Create an S3 bucket for access logs
//	persona: beginner
//	expected_resources: [Bucket, BucketPolicy]
//	appropriate_questions: 1
type Scenario struct {
	Name                 string   `yaml:"name"`
	Prompt               string   `yaml:"prompt"`
	Persona              string   `yaml:"persona,omitempty"`
	Domain               string   `yaml:"domain,omitempty"`
	ExpectedResources    []string `yaml:"expected_resources,omitempty"`
	AppropriateQuestions int      `yaml:"appropriate_questions,omitempty"`
}

// ParseScenario decodes a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	if s.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	return &s, nil
}

// LoadScenario reads and decodes the scenario at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}
