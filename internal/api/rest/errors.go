package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dtroode/outagetracker/internal/model"
)

type errorBody struct {
	Message  string              `json:"message"`
	Error    string              `json:"error"`
	Errors   map[string][]string `json:"errors"`
	Location *model.Location     `json:"location"`
}

// decodeError converts a non-2xx response into an *model.APIError.
func decodeError(status int, raw []byte) *model.APIError {
	apiErr := &model.APIError{
		Kind:   model.KindForStatus(status),
		Status: status,
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		apiErr.Errors = body.Errors
		if status == http.StatusConflict {
			apiErr.Location = body.Location
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(http.StatusText(status))
	}
	return apiErr
}
