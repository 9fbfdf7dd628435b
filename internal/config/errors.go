package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates a missing database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing token sign key or unknown environment).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidMailConfigs indicates that production runs without SMTP.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
	// ErrInvalidSecurityConfigs indicates non-positive middleware limits.
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
)
