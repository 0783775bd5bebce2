// Package db opens the GORM connection used by the entity store. It accepts
// a postgres URL for deployments and an sqlite path for local development.
package db
