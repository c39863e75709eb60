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
	"fmt"

	"github.com/onsi/gomega/types"
	"github.com/tidwall/gjson"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
)

// HaveConfigValue returns a matcher that checks the value at a gjson path of a config.yaml blob.
// The actual value may be the YAML text itself or a ConfigMap carrying it under config.yaml.
func HaveConfigValue(path, expected string) types.GomegaMatcher {
	return &haveConfigMatcher{path: path, expected: &expected}
}

// HaveConfigKey returns a matcher that checks a gjson path exists in a config.yaml blob.
func HaveConfigKey(path string) types.GomegaMatcher {
	return &haveConfigMatcher{path: path}
}

type haveConfigMatcher struct {
	path     string
	expected *string
	result   gjson.Result
	document string
}

func (matcher *haveConfigMatcher) Match(actual any) (success bool, err error) {
	var blob string
	switch v := actual.(type) {
	case string:
		blob = v
	case []byte:
		blob = string(v)
	case *corev1.ConfigMap:
		if v == nil {
			return false, fmt.Errorf("expected non-nil *corev1.ConfigMap")
		}
		blob = v.Data[constants.ConfigFileName]
	default:
		return false, fmt.Errorf("expected YAML text or *corev1.ConfigMap, but got %T", actual)
	}

	doc, err := yaml.YAMLToJSON([]byte(blob))
	if err != nil {
		return false, fmt.Errorf("config is not valid YAML: %w", err)
	}
	matcher.document = string(doc)
	matcher.result = gjson.GetBytes(doc, matcher.path)

	if !matcher.result.Exists() {
		return false, nil
	}
	if matcher.expected == nil {
		return true, nil
	}
	return matcher.result.String() == *matcher.expected, nil
}

func (matcher *haveConfigMatcher) FailureMessage(actual any) string {
	if matcher.expected == nil || !matcher.result.Exists() {
		return fmt.Sprintf("Expected config to contain %q, document was:\n%s", matcher.path, matcher.document)
	}
	return fmt.Sprintf("Expected config value at %q to be %q, but found %q", matcher.path, *matcher.expected, matcher.result.String())
}

func (matcher *haveConfigMatcher) NegatedFailureMessage(actual any) string {
	if matcher.expected == nil {
		return fmt.Sprintf("Expected config not to contain %q, but found %s", matcher.path, matcher.result.Raw)
	}
	return fmt.Sprintf("Expected config value at %q not to be %q", matcher.path, *matcher.expected)
}
