package stash

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/johanforsgren/stashreview/internal/provider/common"
)

type errorPayload struct {
	Errors []common.ServerMessage `json:"errors"`
}

// decode checks resp against the expected statuses and unmarshals its JSON
// body into out. A nil out or a 204 skips body handling.
func decode(op string, resp *rawResponse, expected []int, out interface{}) error {
	if !statusIn(resp.StatusCode, expected) {
		return unexpectedStatus(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if !isJSON(resp.contentType()) {
		return &common.ClientError{
			Kind:        common.KindUnexpectedContentType,
			Operation:   op,
			StatusCode:  resp.StatusCode,
			ContentType: resp.contentType(),
		}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &common.ReportExtractionError{Entity: op, Reason: "malformed JSON payload", Err: err}
	}
	return nil
}

func unexpectedStatus(op string, resp *rawResponse) *common.ClientError {
	ce := &common.ClientError{
		Kind:        common.KindUnexpectedStatus,
		Operation:   op,
		StatusCode:  resp.StatusCode,
		ContentType: resp.contentType(),
	}
	if isJSON(resp.contentType()) {
		var payload errorPayload
		if err := json.Unmarshal(resp.Body, &payload); err == nil {
			ce.Messages = payload.Errors
		}
	}
	return ce
}

func statusIn(status int, expected []int) bool {
	for _, s := range expected {
		if s == status {
			return true
		}
	}
	return false
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
