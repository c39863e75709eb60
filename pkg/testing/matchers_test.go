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
	"testing"

	"github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"knative.dev/pkg/apis"
	duckv1 "knative.dev/pkg/apis/duck/v1"
	knservingv1 "knative.dev/serving/pkg/apis/serving/v1"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
)

func TestHaveConfigValue(t *testing.T) {
	g := gomega.NewWithT(t)

	blob := "modelMeshImage:\n  name: quay.io/opendatahub/modelmesh\n  tag: fast\npodsPerRuntime: 1\n"
	g.Expect(blob).To(HaveConfigValue("podsPerRuntime", "1"))
	g.Expect(blob).To(HaveConfigValue("modelMeshImage.name", "quay.io/opendatahub/modelmesh"))
	g.Expect(blob).To(HaveConfigKey("modelMeshImage.tag"))
	g.Expect(blob).NotTo(HaveConfigValue("modelMeshImage.tag", "latest"))

	cm := &corev1.ConfigMap{Data: map[string]string{"config.yaml": "podsPerRuntime: 1\n"}}
	g.Expect(cm).To(HaveConfigValue("podsPerRuntime", "1"))
	g.Expect(cm).NotTo(HaveConfigKey("modelMeshImage"))

	_, err := HaveConfigKey("a").Match(42)
	g.Expect(err).To(gomega.HaveOccurred())
}

func TestHaveLabelAndAnnotation(t *testing.T) {
	g := gomega.NewWithT(t)

	secret := &corev1.Secret{ObjectMeta: metav1.ObjectMeta{
		Labels:      map[string]string{"opendatahub.io/dashboard": "true"},
		Annotations: map[string]string{"opendatahub.io/connection-type": "s3"},
	}}

	g.Expect(secret).To(HaveLabel("opendatahub.io/dashboard", "true"))
	g.Expect(secret).NotTo(HaveLabel("opendatahub.io/managed", "true"))
	g.Expect(secret).To(HaveAnnotation("opendatahub.io/connection-type", "s3"))
	g.Expect(secret).NotTo(HaveAnnotation("opendatahub.io/connection-type", "uri"))
}

func TestHaveCondition(t *testing.T) {
	g := gomega.NewWithT(t)

	route := &knservingv1.Route{
		Status: knservingv1.RouteStatus{
			Status: duckv1.Status{
				Conditions: duckv1.Conditions{
					{Type: apis.ConditionReady, Status: corev1.ConditionTrue},
				},
			},
		},
	}
	g.Expect(route).To(HaveCondition("Ready", "True"))
	g.Expect(route).NotTo(HaveCondition("AllTrafficAssigned", "True"))

	svc := &v1alpha1.TrustyAIService{
		Status: v1alpha1.TrustyAIServiceStatus{
			Phase: v1alpha1.PhaseReady,
			Conditions: []metav1.Condition{
				{Type: v1alpha1.ConditionPVCAvailable, Status: metav1.ConditionTrue},
				{Type: v1alpha1.ConditionRouteAvailable, Status: metav1.ConditionFalse},
			},
		},
	}
	g.Expect(svc).To(HaveCondition(v1alpha1.ConditionPVCAvailable, "True"))
	g.Expect(svc).To(HaveCondition(v1alpha1.ConditionRouteAvailable, "False"))
	g.Expect(svc).To(HavePhase(v1alpha1.PhaseReady))

	ns := &corev1.Namespace{Status: corev1.NamespaceStatus{Phase: corev1.NamespaceActive}}
	g.Expect(ns).To(HavePhase("Active"))
}

func TestHaveContainerImage(t *testing.T) {
	g := gomega.NewWithT(t)

	pod := &corev1.Pod{Spec: corev1.PodSpec{Containers: []corev1.Container{
		{Name: "minio", Image: "quay.io/trustyai/modelmesh-minio-examples:latest"},
	}}}

	g.Expect(pod).To(HaveContainerImage("quay.io/trustyai/modelmesh-minio-examples:latest"))
	g.Expect(pod).NotTo(HaveContainerImage("quay.io/minio/minio"))
}
