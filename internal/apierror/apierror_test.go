/*
Copyright 2024 Splitflow Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError(ErrConflict, "Payment with this idempotency key already exists", nil)
	assert.Equal(t, "CONFLICT: Payment with this idempotency key already exists", err.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(NewAPIError(ErrNotFound, "missing", nil)))
	assert.Equal(t, ErrInternalServer, CodeOf(errors.New("plain error")))
}

func TestIsCode(t *testing.T) {
	err := NewAPIError(ErrConflict, "conflict", nil)
	assert.True(t, IsCode(err, ErrConflict))
	assert.False(t, IsCode(err, ErrNotFound))
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewAPIError(ErrNotFound, "missing", nil), http.StatusNotFound},
		{NewAPIError(ErrConflict, "conflict", nil), http.StatusConflict},
		{NewAPIError(ErrInvalidInput, "bad", nil), http.StatusBadRequest},
		{NewAPIError(ErrBadRequest, "bad", nil), http.StatusBadRequest},
		{NewAPIError(ErrInternalServer, "boom", nil), http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToHTTPStatus(tt.err))
	}
}
