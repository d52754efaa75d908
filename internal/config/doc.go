// Package config defines the project configuration model, its JSON
// persistence, validation, and the interactive init wizard.
//
// The configuration file is the single source the CLI reads; credentials come
// from the environment exactly once via FromEnv and travel in a Credentials
// struct from there on.
package config
