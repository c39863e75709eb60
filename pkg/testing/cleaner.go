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
	"context"
	"slices"
	"strings"
	"time"

	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	k8serr "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Cleaner deletes test objects and finalizes namespaces by hand. envtest runs no
// kube-controller-manager, so a deleted namespace stays Terminating until its content is purged
// and the `kubernetes` finalizer is removed.
// See: https://book.kubebuilder.io/reference/envtest.html#namespace-usage-limitation
type Cleaner struct {
	clientset         kubernetes.Interface
	client            client.Client
	timeout, interval time.Duration
	namespacedGVKs    []schema.GroupVersionKind
}

func CreateCleaner(k8sClient client.Client, config *rest.Config, timeout, interval time.Duration) *Cleaner {
	k8sClientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		panic(err)
	}

	return &Cleaner{
		clientset:      k8sClientset,
		client:         k8sClient,
		namespacedGVKs: discoverNamespacedKinds(k8sClientset),
		timeout:        timeout,
		interval:       interval,
	}
}

// DeleteAll deletes objects and waits until each one is gone.
func (c *Cleaner) DeleteAll(ctx context.Context, objects ...client.Object) {
	for _, obj := range objects {
		Expect(client.IgnoreNotFound(c.client.Delete(ctx, obj))).Should(Succeed())

		if ns, ok := obj.(*corev1.Namespace); ok {
			c.FinalizeNamespace(ctx, ns.Name)
			continue
		}

		c.expectGone(ctx, obj)
	}
}

// FinalizeNamespace purges the content of a namespace being deleted and strips its
// `kubernetes` finalizer so the API server can remove it.
func (c *Cleaner) FinalizeNamespace(ctx context.Context, name string) {
	for _, gvk := range c.namespacedGVKs {
		u := &unstructured.Unstructured{}
		u.SetGroupVersionKind(gvk)

		err := c.client.DeleteAllOf(ctx, u, client.InNamespace(name))
		Expect(client.IgnoreNotFound(ignoreMethodNotAllowed(err))).ShouldNot(HaveOccurred())
	}

	ns := &corev1.Namespace{}
	Eventually(func(g Gomega) {
		err := c.client.Get(ctx, client.ObjectKey{Name: name}, ns)
		if k8serr.IsNotFound(err) {
			return
		}
		g.Expect(err).NotTo(HaveOccurred())

		ns.Spec.Finalizers = slices.DeleteFunc(ns.Spec.Finalizers, func(f corev1.FinalizerName) bool {
			return f == corev1.FinalizerKubernetes
		})
		// Only the typed clientset exposes the /finalize subresource.
		_, err = c.clientset.CoreV1().Namespaces().Finalize(ctx, ns, metav1.UpdateOptions{})
		g.Expect(client.IgnoreNotFound(err)).NotTo(HaveOccurred())
	}, c.timeout, c.interval).Should(Succeed())

	c.expectGone(ctx, &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}})
}

func (c *Cleaner) expectGone(ctx context.Context, obj client.Object) {
	key := client.ObjectKeyFromObject(obj)
	Eventually(func() metav1.StatusReason {
		if err := c.client.Get(ctx, key, obj); err != nil {
			return k8serr.ReasonForError(err)
		}
		return ""
	}, c.timeout, c.interval).Should(Equal(metav1.StatusReasonNotFound), "%T %s was not deleted", obj, key)
}

func discoverNamespacedKinds(clientset kubernetes.Interface) []schema.GroupVersionKind {
	_, apiResources, err := clientset.Discovery().ServerGroupsAndResources()
	if err != nil {
		panic(err)
	}

	seen := make(map[schema.GroupVersionKind]bool)
	var kinds []schema.GroupVersionKind
	for _, list := range apiResources {
		gv, parseErr := schema.ParseGroupVersion(list.GroupVersion)
		Expect(parseErr).ShouldNot(HaveOccurred())

		for _, resource := range list.APIResources {
			// skip cluster scoped kinds and sub-resources
			if !resource.Namespaced || strings.Contains(resource.Name, "/") {
				continue
			}

			gvk := gv.WithKind(resource.Kind)
			if resource.Group != "" {
				gvk.Group = resource.Group
			}
			if resource.Version != "" {
				gvk.Version = resource.Version
			}
			if !seen[gvk] {
				seen[gvk] = true
				kinds = append(kinds, gvk)
			}
		}
	}

	return kinds
}

func ignoreMethodNotAllowed(err error) error {
	if k8serr.ReasonForError(err) == metav1.StatusReasonMethodNotAllowed {
		return nil
	}

	return err
}
