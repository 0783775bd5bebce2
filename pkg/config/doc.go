// Package config holds the mount-wide configuration: the required auth
// descriptor, the optional documentation descriptor and the server settings
// used by restifyctl. Values load from a YAML file with environment
// variables taking precedence.
package config
