// Package config loads heron.yaml.
//
// Values come from, in increasing priority: DefaultConfig, the config file,
// and HERON_* environment variables (a .env file is loaded first). Nested
// keys map to variables with dots replaced by underscores, so trace.router
// is HERON_TRACE_ROUTER.
package config
