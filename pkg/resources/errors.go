/*
Copyright 2025 The TrustyAI Authors.

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

package resources

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/types"
)

// ErrFieldNotFound is returned when a nested field is absent from the live object.
var ErrFieldNotFound = errors.New("field not found")

// ConflictError reports that the object being created already exists in the cluster.
type ConflictError struct {
	Kind string
	Key  types.NamespacedName
	Err  error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists: %v", e.Kind, e.Key, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that an object did not reach the wanted state in time.
type TimeoutError struct {
	Kind    string
	Key     types.NamespacedName
	Want    string
	Last    string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	last := e.Last
	if last == "" {
		last = "<none>"
	}
	return fmt.Sprintf("timed out after %s waiting for %s %s to become %q (last observed %q): %v",
		e.Timeout, e.Kind, e.Key, e.Want, last, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsConflict returns true if err, or any error it wraps, is a *ConflictError.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsTimeout returns true if err, or any error it wraps, is a *TimeoutError.
func IsTimeout(err error) bool {
	var timeout *TimeoutError
	return errors.As(err, &timeout)
}
