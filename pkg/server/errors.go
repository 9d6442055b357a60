// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/serializer"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// WriteError writes a JSON ErrorResponse with the request ID from the
// context, or a fresh one.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code cerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err to a status and code. Structured errors keep
// their code, message and context; anything else is INTERNAL with
// fallbackMessage. The cause text goes into details["error"].
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	code := cerrors.CodeOf(err)
	message := fallbackMessage
	var details map[string]any

	if se, ok := cerrors.As(err); ok {
		message = se.Message
		details = mergeDetails(se.Context, nil)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
	} else if err != nil {
		details = map[string]any{"error": err.Error()}
	}

	WriteError(w, r, HTTPStatusFromCode(code), code, message, retryableFromCode(code),
		mergeDetails(details, extraDetails))
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code cerrors.ErrorCode) int {
	switch code {
	case cerrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case cerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case cerrors.ErrCodeNotAcceptable:
		return http.StatusNotAcceptable
	case cerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case cerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case cerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code cerrors.ErrorCode) bool {
	switch code {
	case cerrors.ErrCodeTimeout, cerrors.ErrCodeUnavailable, cerrors.ErrCodeRateLimitExceeded, cerrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b's entries over a's, or nil when both
// are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
