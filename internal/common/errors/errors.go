// Package errors defines the closed set of user-facing error codes carried in
// response envelopes, plus helpers to classify them.
package errors

import "strings"

// Code represents standardized response error codes.
type Code string

const (
	CodeEmptyRequest      Code = "EMPTY_REQUEST"
	CodeUnrecognized      Code = "UNRECOGNIZED"
	CodeUnsupportedIntent Code = "UNSUPPORTED_INTENT"
	CodeMissingParam      Code = "MISSING_PARAM"
	CodeMissingDateOrTime Code = "MISSING_DATE_OR_TIME"
	CodePlantNameMissing  Code = "PLANT_NAME_MISSING"
	CodePlantNotFound     Code = "PLANT_NOT_FOUND"
	CodeNoData            Code = "NO_DATA"
	CodeFetchFailed       Code = "FETCH_FAILED"
	CodeInternal          Code = "INTERNAL"
)

// UserFacing reports whether the code describes a problem with the request
// itself rather than with this service or its collaborators.
func UserFacing(code Code) bool {
	switch code {
	case CodeEmptyRequest, CodeUnrecognized, CodeUnsupportedIntent,
		CodeMissingParam, CodeMissingDateOrTime, CodePlantNameMissing:
		return true
	}
	return false
}

// Category returns the taxonomy bucket of the error code.
func Category(code Code) string {
	switch code {
	case CodeEmptyRequest, CodeMissingParam, CodeMissingDateOrTime, CodePlantNameMissing:
		return "USER_INPUT"
	case CodePlantNotFound, CodeNoData:
		return "RESOLUTION_MISS"
	case CodeFetchFailed:
		return "UPSTREAM"
	case CodeUnrecognized, CodeUnsupportedIntent:
		return "CLASSIFICATION"
	default:
		if strings.HasPrefix(string(code), "INTERNAL") {
			return "INTERNAL"
		}
		return "OTHER"
	}
}
