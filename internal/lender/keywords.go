package lender

import (
	"encoding/json"
	"os"
	"strings"

	apperrors "statement-extractor/pkg/errors"
)

// Keywords is the lender keyword configuration.
// Lender names are kept exactly as written in the file.
type Keywords struct {
	BusinessCategoryKeywords map[string][]string `json:"businessCategoryKeywords"`
	TransferKeywords         []string            `json:"transferKeywords"`
}

// LoadKeywords reads a keywords JSON file
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.FileError(apperrors.CodeFileNotFound, path, err)
		}
		return nil, apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	return ParseKeywords(data, path)
}

// ParseKeywords decodes keyword configuration from raw JSON. source is only
// used in error messages.
func ParseKeywords(data []byte, source string) (*Keywords, error) {
	var kw Keywords
	if err := json.Unmarshal(data, &kw); err != nil {
		return nil, apperrors.ConfigurationError(apperrors.CodeInvalidConfig, "keywords", source, err)
	}
	if err := kw.Validate(); err != nil {
		return nil, apperrors.ConfigurationError(apperrors.CodeInvalidConfig, "keywords", source, err)
	}
	return &kw, nil
}

// Validate rejects blank lender names
func (k *Keywords) Validate() error {
	for name := range k.BusinessCategoryKeywords {
		if strings.TrimSpace(name) == "" {
			return apperrors.New(apperrors.CategoryConfiguration, apperrors.CodeInvalidConfig, "lender name cannot be empty")
		}
	}
	return nil
}

// Lenders returns the number of configured lenders
func (k *Keywords) Lenders() int {
	return len(k.BusinessCategoryKeywords)
}
