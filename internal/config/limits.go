package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed limits.yaml
var limitsFile []byte

// Limits holds the server-side field limits applied during request
// validation. They live in an embedded YAML file so that the numbers
// are documented in one place rather than scattered through validators.
type Limits struct {
	MaxFolderNameLength   int `yaml:"max_folder_name_length"`
	MaxDocumentTitleLen   int `yaml:"max_document_title_length"`
	MaxDocumentContentLen int `yaml:"max_document_content_length"`
	MaxCommentContentLen  int `yaml:"max_comment_content_length"`
	MinPasswordLength     int `yaml:"min_password_length"`
	MaxEmailLength        int `yaml:"max_email_length"`
}

var (
	limitsOnce sync.Once
	limits     Limits
	limitsErr  error
)

// LoadLimits parses the embedded limits file. The result is cached;
// subsequent calls return the same values.
func LoadLimits() (Limits, error) {
	limitsOnce.Do(func() {
		limitsErr = yaml.Unmarshal(limitsFile, &limits)
		if limitsErr != nil {
			limitsErr = fmt.Errorf("parse embedded limits.yaml: %w", limitsErr)
		}
	})
	return limits, limitsErr
}

// MustLimits is LoadLimits for wiring paths where a broken embedded
// file is a programming error.
func MustLimits() Limits {
	l, err := LoadLimits()
	if err != nil {
		panic(err)
	}
	return l
}
