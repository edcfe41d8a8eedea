// Package tools maps Sveriges Radio API operations onto callable tools.
//
// Each tool decodes and validates its JSON arguments, translates them into
// API query parameters, fetches through a srclient.Fetcher and reshapes the
// response into a compact JSON result. Handler failures never escape as Go
// errors from Registry.Call; they are rendered into the result with IsError
// set so the calling model can read the error code and message.
package tools
