// Package server wires the HTTP server: a gorilla/mux router behind access
// logging with read and write timeouts. Routes are mounted by the routes
// package.
package server
