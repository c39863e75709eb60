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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// StorageSpec describes where the service persists the inference data it collects.
type StorageSpec struct {
	// Format of the storage backend, e.g. PVC or DATABASE
	Format string `json:"format"`
	// Folder inside the volume the data is written to
	Folder string `json:"folder,omitempty"`
	// Size of the persistent volume claim
	Size string `json:"size,omitempty"`
	// DatabaseConfigurations names the secret holding database credentials
	// +optional
	DatabaseConfigurations string `json:"databaseConfigurations,omitempty"`
}

// DataSpec describes the layout of the stored inference data.
type DataSpec struct {
	Filename string `json:"filename,omitempty"`
	Format   string `json:"format,omitempty"`
}

// MetricsSpec configures the metrics calculation schedule.
type MetricsSpec struct {
	// Schedule is the interval between metrics calculations, e.g. 5s
	Schedule string `json:"schedule"`
	// +optional
	BatchSize *int `json:"batchSize,omitempty"`
}

// TrustyAIServiceSpec defines the desired state of TrustyAIService
type TrustyAIServiceSpec struct {
	// +optional
	Replicas *int32      `json:"replicas,omitempty"`
	Storage  StorageSpec `json:"storage"`
	// +optional
	Data    DataSpec    `json:"data,omitempty"`
	Metrics MetricsSpec `json:"metrics"`
}

// Phases reported by the operator in TrustyAIServiceStatus.Phase
const (
	PhaseNotReady = "Not Ready"
	PhaseReady    = "Ready"
)

// Condition types reported by the operator
const (
	ConditionInferenceServicesPresent = "InferenceServicesPresent"
	ConditionPVCAvailable             = "PVCAvailable"
	ConditionRouteAvailable           = "RouteAvailable"
	ConditionAvailable                = "Available"
)

// TrustyAIServiceStatus defines the observed state of TrustyAIService
type TrustyAIServiceStatus struct {
	// +optional
	Phase string `json:"phase,omitempty"`
	// +optional
	Replicas int32 `json:"replicas,omitempty"`
	// +optional
	Ready string `json:"ready,omitempty"`
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// TrustyAIService is the Schema for the trustyaiservices API
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
type TrustyAIService struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TrustyAIServiceSpec   `json:"spec,omitempty"`
	Status TrustyAIServiceStatus `json:"status,omitempty"`
}

// TrustyAIServiceList contains a list of TrustyAIService
// +kubebuilder:object:root=true
type TrustyAIServiceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TrustyAIService `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TrustyAIService{}, &TrustyAIServiceList{})
}
