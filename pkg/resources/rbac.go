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
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

type ServiceAccount struct {
	*Resource[*corev1.ServiceAccount]
}

func NewServiceAccount(c client.Client, name, namespace string, opts ...Option) *ServiceAccount {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
	}
	return &ServiceAccount{Resource: New(c, sa, opts...)}
}

type RoleBinding struct {
	*Resource[*rbacv1.RoleBinding]
}

func NewRoleBinding(c client.Client, name, namespace string, roleRef rbacv1.RoleRef, subjects []rbacv1.Subject, opts ...Option) *RoleBinding {
	rb := &rbacv1.RoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Subjects: subjects,
		RoleRef:  roleRef,
	}
	return &RoleBinding{Resource: New(c, rb, opts...)}
}

// ClusterRoleRef references a ClusterRole by name.
func ClusterRoleRef(name string) rbacv1.RoleRef {
	return rbacv1.RoleRef{
		APIGroup: rbacv1.GroupName,
		Kind:     "ClusterRole",
		Name:     name,
	}
}

// ServiceAccountSubject references a ServiceAccount in namespace.
func ServiceAccountSubject(name, namespace string) rbacv1.Subject {
	return rbacv1.Subject{
		Kind:      rbacv1.ServiceAccountKind,
		Name:      name,
		Namespace: namespace,
	}
}
