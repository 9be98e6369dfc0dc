// Package config loads the service configuration from an optional YAML file,
// falling back to built-in defaults. Values here are filing constants of the
// operator (home state, fallback codes, platform GSTINs), not tunables the
// pipeline derives anything from.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the global application configuration.
type Config struct {
	// Port the HTTP server listens on. Overridable with GST_REPORT_PORT.
	Port string `yaml:"port"`

	// HomeStateCode is the filer's registered state. Unresolvable state
	// names and the INTRA/INTER split both key off this code.
	HomeStateCode string `yaml:"home_state_code"`

	// DefaultStateName is used when a row carries no state at all.
	DefaultStateName string `yaml:"default_state_name"`

	// DefaultGSTIN is used when the request carries no tax identity.
	DefaultGSTIN string `yaml:"default_gstin"`

	// DefaultRatePercent applies when a row has no usable rate columns.
	DefaultRatePercent float64 `yaml:"default_rate_percent"`

	// FallbackHSNCode buckets rows without a classification code.
	FallbackHSNCode string `yaml:"fallback_hsn_code"`

	// HSNDescription is the fixed goods description for HSN lines.
	HSNDescription string `yaml:"hsn_description"`

	// PayloadVersion is stamped into the filing payload envelope.
	PayloadVersion string `yaml:"payload_version"`

	// Operator GSTINs substituted for platform names in the payload.
	AmazonOperatorGSTIN string `yaml:"amazon_operator_gstin"`
	MeeshoOperatorGSTIN string `yaml:"meesho_operator_gstin"`

	// Placeholder document ranges when a source has no invoice ids.
	AmazonSeriesFrom string `yaml:"amazon_series_from"`
	AmazonSeriesTo   string `yaml:"amazon_series_to"`
	MeeshoSeriesFrom string `yaml:"meesho_series_from"`
	MeeshoSeriesTo   string `yaml:"meesho_series_to"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Port:                "8084",
		HomeStateCode:       "27",
		DefaultStateName:    "MAHARASHTRA",
		DefaultGSTIN:        "27CJAPK3544E1ZH",
		DefaultRatePercent:  5,
		FallbackHSNCode:     "620821",
		HSNDescription:      "OF COTTON",
		PayloadVersion:      "GST3.2.2",
		AmazonOperatorGSTIN: "27AAICA3918J1CT",
		MeeshoOperatorGSTIN: "27AACCF6368D1CX",
		AmazonSeriesFrom:    "IN-32",
		AmazonSeriesTo:      "IN-49",
		MeeshoSeriesFrom:    "534p926195",
		MeeshoSeriesTo:      "534p926C108",
	}
}

// Load reads the YAML file at path on top of the defaults. A missing path is
// not an error; a malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if port := os.Getenv("GST_REPORT_PORT"); port != "" {
		cfg.Port = port
	}
	return cfg, nil
}
