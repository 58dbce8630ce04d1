// Package server runs an HTTP handler with graceful shutdown and ordered shutdown hooks.
package server
