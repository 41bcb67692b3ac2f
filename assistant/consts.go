package assistant

import "time"

const (
	DefaultModel      = "gemini-3-flash-preview"
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/"
	DefaultAPIVersion = "v1beta"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRecords = 10

	MissingKeyMessage    = "API Key missing. Cannot generate analysis."
	EmptyResponseMessage = "Could not generate analysis."
	FailureMessage       = "Sorry, I couldn't analyze the data at this moment. Please check your connection or API key."
)
