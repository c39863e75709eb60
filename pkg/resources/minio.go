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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
	"github.com/trustyai-explainability/trustyai-tests/pkg/credentials/s3"
)

// Pod phases as reported in status.phase.
const (
	PodRunning = string(corev1.PodRunning)
	PodPending = string(corev1.PodPending)
)

type Pod struct {
	*Resource[*corev1.Pod]
}

func NewPod(c client.Client, pod *corev1.Pod, opts ...Option) *Pod {
	return &Pod{Resource: New(c, pod, opts...)}
}

type Service struct {
	*Resource[*corev1.Service]
}

func NewService(c client.Client, svc *corev1.Service, opts ...Option) *Service {
	return &Service{Resource: New(c, svc, opts...)}
}

type Secret struct {
	*Resource[*corev1.Secret]
}

func NewSecret(c client.Client, secret *corev1.Secret, opts ...Option) *Secret {
	return &Secret{Resource: New(c, secret, opts...)}
}

func minioSelector() map[string]string {
	return map[string]string{constants.MinioAppLabelKey: constants.MinioName}
}

// MinioServiceObject exposes the minio pod on port inside namespace.
func MinioServiceObject(name, namespace string, port, targetPort int32) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    minioSelector(),
		},
		Spec: corev1.ServiceSpec{
			Ports: []corev1.ServicePort{
				{
					Name:       "minio-client-port",
					Port:       port,
					Protocol:   corev1.ProtocolTCP,
					TargetPort: intstr.FromInt32(targetPort),
				},
			},
			Selector: minioSelector(),
		},
	}
}

// MinioPodObject runs the minio example image with the access keys of the data connection.
func MinioPodObject(name, namespace, image string, dc *s3.DataConnection) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    minioSelector(),
		},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{
				{
					Name:  constants.MinioName,
					Image: image,
					Args:  []string{"server", "/data1"},
					Env: []corev1.EnvVar{
						{Name: "MINIO_ACCESS_KEY", Value: dc.AccessKeyID},
						{Name: "MINIO_SECRET_KEY", Value: dc.SecretAccessKey},
					},
					Ports: []corev1.ContainerPort{
						{ContainerPort: constants.MinioPort, Protocol: corev1.ProtocolTCP},
					},
				},
			},
		},
	}
}

// MinioSecretObject renders dc as a dashboard-visible s3 data connection.
func MinioSecretObject(name, namespace string, dc *s3.DataConnection) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels: map[string]string{
				constants.DashboardLabelKey: "true",
				constants.ManagedLabelKey:   "true",
			},
			Annotations: map[string]string{
				constants.ConnectionTypeAnnotationKey: "s3",
				constants.DisplayNameAnnotationKey:    "Minio Data Connection",
			},
		},
		Type: corev1.SecretTypeOpaque,
		Data: dc.SecretData(),
	}
}
