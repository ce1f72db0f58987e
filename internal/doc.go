// Package internal implements the HTTP application behind the photostore
// package: routing on chi, the request Context, error rendering, session
// lookup and graceful shutdown. Public names are re-exported from the module
// root.
package internal
