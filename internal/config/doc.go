// Package config loads wfextract settings from a YAML file, .env files and
// WFEXTRACT_* environment variables, and turns them into pipeline options
// and an observer.
//
// Precedence, lowest first: built-in defaults, the YAML file, the process
// environment (which .env files populate without overriding variables that
// are already set).
package config
