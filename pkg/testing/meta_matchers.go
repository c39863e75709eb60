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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// HaveLabel returns a matcher that checks if a Kubernetes object carries the label key=value
func HaveLabel(key, value string) types.GomegaMatcher {
	return &haveMetaEntryMatcher{kind: "label", key: key, value: value, entries: metav1.Object.GetLabels}
}

// HaveAnnotation returns a matcher that checks if a Kubernetes object carries the annotation key=value
func HaveAnnotation(key, value string) types.GomegaMatcher {
	return &haveMetaEntryMatcher{kind: "annotation", key: key, value: value, entries: metav1.Object.GetAnnotations}
}

type haveMetaEntryMatcher struct {
	kind    string
	key     string
	value   string
	entries func(metav1.Object) map[string]string
	actual  map[string]string
}

func (matcher *haveMetaEntryMatcher) Match(actual any) (success bool, err error) {
	obj, ok := actual.(metav1.Object)
	if !ok {
		return false, fmt.Errorf("expected a Kubernetes object implementing metav1.Object, but got %T", actual)
	}

	matcher.actual = matcher.entries(obj)
	v, found := matcher.actual[matcher.key]

	return found && v == matcher.value, nil
}

func (matcher *haveMetaEntryMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("Expected %T to have %s %s=%q, but found %ss: %v",
		actual, matcher.kind, matcher.key, matcher.value, matcher.kind, matcher.actual)
}

func (matcher *haveMetaEntryMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected %T not to have %s %s=%q", actual, matcher.kind, matcher.key, matcher.value)
}
