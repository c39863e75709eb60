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
	"errors"
	"fmt"

	"github.com/onsi/gomega/types"
	corev1 "k8s.io/api/core/v1"
)

// HaveContainerImage returns a matcher that checks if a Pod has a container with the specified image
func HaveContainerImage(expectedImage string) types.GomegaMatcher {
	return &haveContainerImageMatcher{
		expectedImage: expectedImage,
	}
}

type haveContainerImageMatcher struct {
	expectedImage string
	actualImages  []string
}

func (matcher *haveContainerImageMatcher) Match(actual any) (success bool, err error) {
	var spec *corev1.PodSpec
	switch v := actual.(type) {
	case *corev1.Pod:
		if v == nil {
			return false, errors.New("expected non-nil *corev1.Pod, but got nil")
		}
		spec = &v.Spec
	case corev1.Pod:
		spec = &v.Spec
	case *corev1.PodSpec:
		spec = v
	default:
		return false, fmt.Errorf("expected *corev1.Pod, corev1.Pod or *corev1.PodSpec, but got %T", actual)
	}

	matcher.actualImages = matcher.actualImages[:0]
	found := false
	for _, container := range spec.Containers {
		matcher.actualImages = append(matcher.actualImages, container.Image)
		if container.Image == matcher.expectedImage {
			found = true
		}
	}

	return found, nil
}

func (matcher *haveContainerImageMatcher) FailureMessage(actual any) string {
	if len(matcher.actualImages) == 0 {
		return fmt.Sprintf("Expected %T to have container with image %q, but no containers were found",
			actual, matcher.expectedImage)
	}

	return fmt.Sprintf("Expected %T to have container with image %q, but found container images: %v",
		actual, matcher.expectedImage, matcher.actualImages)
}

func (matcher *haveContainerImageMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected %T to not have container with image %q, but it was found",
		actual, matcher.expectedImage)
}
