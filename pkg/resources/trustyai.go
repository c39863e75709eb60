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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
)

type ObjectOption[T client.Object] func(T)

type TrustyAIServiceOption ObjectOption[*v1alpha1.TrustyAIService]

type TrustyAIService struct {
	*Resource[*v1alpha1.TrustyAIService]
}

func NewTrustyAIService(c client.Client, svc *v1alpha1.TrustyAIService, opts ...Option) *TrustyAIService {
	return &TrustyAIService{Resource: New(c, svc, opts...)}
}

// TrustyAIServiceObject builds the desired TrustyAIService.
func TrustyAIServiceObject(name string, opts ...TrustyAIServiceOption) *v1alpha1.TrustyAIService {
	svc := &v1alpha1.TrustyAIService{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.SchemeGroupVersion.String(),
			Kind:       "TrustyAIService",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func InNamespace[T metav1.Object](namespace string) func(T) {
	return func(t T) {
		t.SetNamespace(namespace)
	}
}

func WithPVCStorage(folder, size string) TrustyAIServiceOption {
	return func(svc *v1alpha1.TrustyAIService) {
		svc.Spec.Storage = v1alpha1.StorageSpec{
			Format: "PVC",
			Folder: folder,
			Size:   size,
		}
	}
}

func WithData(filename, format string) TrustyAIServiceOption {
	return func(svc *v1alpha1.TrustyAIService) {
		svc.Spec.Data = v1alpha1.DataSpec{
			Filename: filename,
			Format:   format,
		}
	}
}

func WithMetricsSchedule(schedule string) TrustyAIServiceOption {
	return func(svc *v1alpha1.TrustyAIService) {
		svc.Spec.Metrics.Schedule = schedule
	}
}

func WithMetricsBatchSize(size int) TrustyAIServiceOption {
	return func(svc *v1alpha1.TrustyAIService) {
		svc.Spec.Metrics.BatchSize = &size
	}
}
