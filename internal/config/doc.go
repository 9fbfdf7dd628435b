// Package config provides configuration loading, merging, and validation
// for the natours API and its tools.
//
// Configuration is assembled from several sources; later sources override
// earlier non-zero fields:
//  1. dotenv file (config.env by default), loaded into the process environment
//  2. environment variables
//  3. command-line flags
//  4. JSON config file
//
// Defaults are applied to whatever is still zero after merging, then the
// result is validated. [GetStructuredConfig] is the main entry point.
package config
