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

package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/onsi/gomega/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	duckv1 "knative.dev/pkg/apis/duck/v1"
)

// HaveCondition returns a matcher that checks if a Status has a condition with the specified type and status.
// Both knative duck conditions and metav1.Condition slices are understood.
func HaveCondition(conditionType string, expectedStatus string) types.GomegaMatcher {
	return &haveConditionMatcher{
		conditionType:  conditionType,
		expectedStatus: expectedStatus,
	}
}

type condition struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type haveConditionMatcher struct {
	conditionType    string
	expectedStatus   string
	actualConditions []condition
	foundCondition   *condition
}

func (matcher *haveConditionMatcher) Match(actual any) (success bool, err error) {
	conditions, err := extractConditions(actual)
	if err != nil {
		return false, err
	}

	matcher.actualConditions = conditions
	matcher.foundCondition = nil

	for i := range conditions {
		if conditions[i].Type == matcher.conditionType {
			matcher.foundCondition = &conditions[i]
			return conditions[i].Status == matcher.expectedStatus, nil
		}
	}

	return false, nil
}

func extractConditions(actual any) ([]condition, error) {
	value := reflect.ValueOf(actual)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, errors.New("expected a non-nil pointer, but got nil")
		}
		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct or pointer to struct, but got %T", actual)
	}

	field := value.FieldByName("Conditions")
	if !field.IsValid() {
		if status := value.FieldByName("Status"); status.IsValid() && status.Kind() == reflect.Struct {
			field = status.FieldByName("Conditions")
		}
	}
	if !field.IsValid() || field.Kind() != reflect.Slice {
		return nil, fmt.Errorf("could not find Conditions field in %T", actual)
	}

	switch conditions := field.Interface().(type) {
	case duckv1.Conditions:
		out := make([]condition, 0, len(conditions))
		for _, c := range conditions {
			out = append(out, condition{Type: string(c.Type), Status: string(c.Status), Reason: c.Reason, Message: c.Message})
		}
		return out, nil
	case []metav1.Condition:
		out := make([]condition, 0, len(conditions))
		for _, c := range conditions {
			out = append(out, condition{Type: c.Type, Status: string(c.Status), Reason: c.Reason, Message: c.Message})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported conditions type %v", field.Type())
	}
}

func (matcher *haveConditionMatcher) FailureMessage(actual any) (message string) {
	if len(matcher.actualConditions) == 0 {
		return fmt.Sprintf("Expected %T to have condition %q with status %q, but no conditions were found",
			actual, matcher.conditionType, matcher.expectedStatus)
	}

	conditions, _ := json.MarshalIndent(matcher.actualConditions, "", "  ")
	if matcher.foundCondition != nil {
		return fmt.Sprintf("Expected %T to have condition %q with status %q, but found status %q (reason: %q, message: %q):conditions:\n%s",
			actual, matcher.conditionType, matcher.expectedStatus, matcher.foundCondition.Status, matcher.foundCondition.Reason, matcher.foundCondition.Message, string(conditions))
	}

	return fmt.Sprintf("Expected %T to have condition %q with status %q, but condition was not found. Available conditions:\n%s",
		actual, matcher.conditionType, matcher.expectedStatus, string(conditions))
}

func (matcher *haveConditionMatcher) NegatedFailureMessage(actual any) (message string) {
	return fmt.Sprintf("Expected %T to not have condition %q with status %q", actual, matcher.conditionType, matcher.expectedStatus)
}

// HavePhase returns a matcher that checks Status.Phase of a typed object.
func HavePhase(expected string) types.GomegaMatcher {
	return &havePhaseMatcher{expected: expected}
}

type havePhaseMatcher struct {
	expected string
	actual   string
}

func (matcher *havePhaseMatcher) Match(actual any) (success bool, err error) {
	value := reflect.ValueOf(actual)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return false, errors.New("expected a non-nil pointer, but got nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return false, fmt.Errorf("expected a struct or pointer to struct, but got %T", actual)
	}

	status := value.FieldByName("Status")
	if !status.IsValid() || status.Kind() != reflect.Struct {
		return false, fmt.Errorf("could not find Status field in %T", actual)
	}
	phase := status.FieldByName("Phase")
	if !phase.IsValid() || phase.Kind() != reflect.String {
		return false, fmt.Errorf("could not find Status.Phase field in %T", actual)
	}

	matcher.actual = phase.String()
	return matcher.actual == matcher.expected, nil
}

func (matcher *havePhaseMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("Expected %T to be in phase %q, but found %q", actual, matcher.expected, matcher.actual)
}

func (matcher *havePhaseMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected %T not to be in phase %q", actual, matcher.expected)
}
