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

package constants

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplicationsNamespace(t *testing.T) {
	scenarios := map[string]struct {
		operator string
		expected string
	}{
		"odh":     {operator: ODHOperator, expected: "opendatahub"},
		"rhoai":   {operator: RHOAIOperator, expected: "redhat-ods-applications"},
		"unknown": {operator: "", expected: "opendatahub"},
	}
	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(scenario.expected, ApplicationsNamespace(scenario.operator)); diff != "" {
				t.Errorf("Test %q unexpected result (-want +got): %v", name, diff)
			}
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TRUSTYAI_TESTS_SOME_KEY", "value")
	if got := GetEnvOrDefault("TRUSTYAI_TESTS_SOME_KEY", "fallback"); got != "value" {
		t.Errorf("expected value from env, got %q", got)
	}
	if got := GetEnvOrDefault("TRUSTYAI_TESTS_UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}
