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
	"os"
	"time"
)

// TrustyAI Constants
var (
	TrustyAIAPIGroupName = "trustyai.opendatahub.io"
	TrustyAIServiceName  = "trustyai-service"
	TrustyAIServiceKind  = "TrustyAIService"
)

// Operator flavours deploying the model serving stack
const (
	ODHOperator   = "odh"
	RHOAIOperator = "rhoai"
)

// Applications namespaces per operator flavour
const (
	ODHApplicationsNamespace   = "opendatahub"
	RHOAIApplicationsNamespace = "redhat-ods-applications"
)

// ApplicationsNamespace returns the namespace the given operator deploys its applications into.
func ApplicationsNamespace(operator string) string {
	if operator == RHOAIOperator {
		return RHOAIApplicationsNamespace
	}
	return ODHApplicationsNamespace
}

// Model namespace Constants
var (
	ModelNamespaceName           = GetEnvOrDefault("TRUSTYAI_TESTS_MODEL_NAMESPACE", "test-namespace")
	ModelMeshEnabledLabelKey     = "modelmesh-enabled"
	ModelMeshServiceAccountName  = "modelmesh-serving-sa"
	TestUserName                 = "test-user"
	TestUserRoleBindingName      = TestUserName + "-view"
	TestUserClusterRoleName      = "view"
	DefaultNamespaceActiveWait   = 120 * time.Second
	DefaultNamespaceDeleteWait   = 600 * time.Second
	DefaultResourceDeleteTimeout = 60 * time.Second
	DefaultPollInterval          = 2 * time.Second
)

// ConfigMap Constants
const (
	ConfigFileName                   = "config.yaml"
	ModelServingConfigMapName        = "model-serving-config"
	ClusterMonitoringConfigMapName   = "cluster-monitoring-config"
	ClusterMonitoringNamespace       = "openshift-monitoring"
	UserWorkloadMonitoringConfigName = "user-workload-monitoring-config"
	UserWorkloadMonitoringNamespace  = "openshift-user-workload-monitoring"
)

// ModelMesh image injected into the model serving config on request
const (
	ModelMeshImageName = "quay.io/opendatahub/modelmesh"
	ModelMeshImageTag  = "fast"
)

// Minio Constants
const (
	MinioName                 = "minio"
	MinioPort           int32 = 9000
	MinioImage                = "quay.io/trustyai/modelmesh-minio-examples@sha256:e8360ec33837b347c76d2ea45cd4fea0b40209f77520181b15e534b101b1f323"
	MinioDataConnection       = "aws-connection-minio-data-connection"
	MinioAppLabelKey          = "app"
)

// OpenDataHub dashboard labels and annotations for data connections
const (
	DashboardLabelKey           = "opendatahub.io/dashboard"
	ManagedLabelKey             = "opendatahub.io/managed"
	ConnectionTypeAnnotationKey = "opendatahub.io/connection-type"
	DisplayNameAnnotationKey    = "openshift.io/display-name"
)

// RunIDLabelKey marks every object created by a test session.
const RunIDLabelKey = "trustyai-tests.opendatahub.io/run-id"

// GetEnvOrDefault returns the value of the environment variable or the fallback when unset.
func GetEnvOrDefault(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
