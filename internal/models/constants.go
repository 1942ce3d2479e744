// Package models contains data types and constants shared by the jewelchat packages.
package models

// Endpoint paths relative to the configured server URL
const (
	PathChat  = "/chat"
	PathReset = "/reset"
)

// DefaultServerURL is where the assistant service listens unless configured otherwise
const DefaultServerURL = "http://127.0.0.1:8000"

// ErrorLiteral is the content of the assistant message appended when a send fails
const ErrorLiteral = "! System Error."

// TimestampLayout renders message times as HH:MM
const TimestampLayout = "15:04"

// PlaceholderPrefix starts every positional image placeholder (image_0, image_1, ...)
const PlaceholderPrefix = "image_"

// DefaultHeaders returns the headers sent with every request to the assistant service
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "jewelchat/" + Version,
	}
}

// Version is reported in the User-Agent header and by --version (set at build time)
var Version = "0.1.0"
