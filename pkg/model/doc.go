// Package model holds the example application models served by restifyctl:
// a User identity model with open signup and a Post model with role-scoped
// listing. They double as a reference for writing routing blocks.
package model
