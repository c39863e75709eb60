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
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/wait"
)

// Status returns the status.phase of the live object.
func (r *Resource[T]) Status(ctx context.Context) (string, error) {
	content, err := r.content(ctx)
	if err != nil {
		return "", err
	}
	return nestedString(content, "status", "phase")
}

// WaitForStatus blocks until status.phase equals status or timeout expires. A missing object or
// an unset phase counts as not yet reached; any other read error aborts the wait.
func (r *Resource[T]) WaitForStatus(ctx context.Context, status string, timeout time.Duration) error {
	r.log.Info("Waiting for status", "status", status, "timeout", timeout)

	var last string
	err := wait.PollUntilContextTimeout(ctx, r.pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		current, err := r.Status(ctx)
		if err != nil {
			if ignoreNotReady(err) {
				return false, nil
			}
			return false, err
		}
		last = current
		return current == status, nil
	})

	return r.waitError(err, status, last, timeout)
}

// WaitForCondition blocks until the condition of the given type reports the wanted status.
func (r *Resource[T]) WaitForCondition(ctx context.Context, conditionType, status string, timeout time.Duration) error {
	r.log.Info("Waiting for condition", "condition", conditionType, "status", status, "timeout", timeout)

	var last string
	err := wait.PollUntilContextTimeout(ctx, r.pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		current, err := r.condition(ctx, conditionType)
		if err != nil {
			if ignoreNotReady(err) {
				return false, nil
			}
			return false, err
		}
		last = current
		return current == status, nil
	})

	return r.waitError(err, conditionType+"="+status, last, timeout)
}

// WaitDeleted blocks until the object can no longer be read.
func (r *Resource[T]) WaitDeleted(ctx context.Context, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, r.pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		exists, err := r.Exists(ctx)
		if err != nil {
			return false, err
		}
		return !exists, nil
	})

	return r.waitError(err, "deleted", "present", timeout)
}

func (r *Resource[T]) waitError(err error, want, last string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	if wait.Interrupted(err) {
		r.log.Info("Timed out waiting", "want", want, "last", last)
		return &TimeoutError{Kind: r.Kind(), Key: r.Key(), Want: want, Last: last, Timeout: timeout, Err: err}
	}
	return err
}

func (r *Resource[T]) condition(ctx context.Context, conditionType string) (string, error) {
	content, err := r.content(ctx)
	if err != nil {
		return "", err
	}

	conditions, found, err := unstructured.NestedSlice(content, "status", "conditions")
	if err != nil {
		return "", errors.Wrapf(err, "invalid status.conditions on %s %s", r.Kind(), r.Key())
	}
	if !found {
		return "", errors.Wrap(ErrFieldNotFound, "status.conditions")
	}

	for _, c := range conditions {
		condition, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _, _ := unstructured.NestedString(condition, "type"); t == conditionType {
			s, _, _ := unstructured.NestedString(condition, "status")
			return s, nil
		}
	}

	return "", errors.Wrapf(ErrFieldNotFound, "condition %s", conditionType)
}

// content reads the live object as a plain map so nested status fields can be looked up the same
// way for typed and unstructured kinds.
func (r *Resource[T]) content(ctx context.Context) (map[string]interface{}, error) {
	obj, err := r.Instance(ctx)
	if err != nil {
		return nil, err
	}
	if u, ok := any(obj).(*unstructured.Unstructured); ok {
		return u.UnstructuredContent(), nil
	}
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to convert %s %s", r.Kind(), r.Key())
	}
	return content, nil
}

func nestedString(content map[string]interface{}, fields ...string) (string, error) {
	value, found, err := unstructured.NestedString(content, fields...)
	if err != nil {
		return "", errors.Wrapf(err, "invalid field %s", strings.Join(fields, "."))
	}
	if !found {
		return "", errors.Wrap(ErrFieldNotFound, strings.Join(fields, "."))
	}
	return value, nil
}

func ignoreNotReady(err error) bool {
	return apierrors.IsNotFound(errors.Cause(err)) || errors.Is(err, ErrFieldNotFound)
}
