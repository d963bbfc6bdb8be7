package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the configuration and returns structured findings.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateAPIURL()...)
	results = append(results, c.validateOrigin()...)
	results = append(results, c.validateDurations()...)
	return results
}

// Err folds the error-level findings into one error, or nil.
func Err(results []ValidationResult) error {
	var errs []error
	for _, r := range results {
		if r.Level == "error" {
			errs = append(errs, errors.New(r.Message))
		}
	}
	return errors.Join(errs...)
}

func (c Config) validateAPIURL() []ValidationResult {
	u, err := url.Parse(c.Dist.APIURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("dist.api_url %q is not an absolute URL", c.Dist.APIURL),
		}}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("dist.api_url %q must use http or https", c.Dist.APIURL),
		}}
	}
	if u.Scheme == "http" {
		return []ValidationResult{{
			Level:   "warning",
			Message: fmt.Sprintf("dist.api_url %q is not using https", c.Dist.APIURL),
		}}
	}
	return nil
}

func (c Config) validateOrigin() []ValidationResult {
	owner, repo, ok := strings.Cut(c.Dist.Origin, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("dist.origin %q must have the form owner/repo", c.Dist.Origin),
		}}
	}
	return nil
}

func (c Config) validateDurations() []ValidationResult {
	var results []ValidationResult
	if c.Dist.ReleaseCacheTTL < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "dist.release_cache_ttl must not be negative",
		})
	}
	if c.Download.Timeout < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "download.timeout must not be negative",
		})
	}
	return results
}
