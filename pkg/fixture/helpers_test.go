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

package fixture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	knservingv1 "knative.dev/serving/pkg/apis/serving/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
	"github.com/trustyai-explainability/trustyai-tests/pkg/config"
	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
	pkgtest "github.com/trustyai-explainability/trustyai-tests/pkg/testing"
)

func testScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
	utilruntime.Must(knservingv1.AddToScheme(scheme))
	return scheme
}

func testOptions() config.Options {
	opts := config.DefaultOptions()
	opts.RunID = "unit"
	opts.PollInterval = 10 * time.Millisecond
	opts.NamespaceActiveTimeout = 200 * time.Millisecond
	opts.NamespaceDeleteTimeout = time.Second
	opts.ResourceDeleteTimeout = time.Second
	return opts
}

func testContext(t *testing.T) context.Context {
	return logf.IntoContext(context.Background(), pkgtest.NewTestLogger(t))
}

func namespace(name string) *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
}

// recorder counts the calls going through the fake client and injects failures.
type recorder struct {
	mu      sync.Mutex
	creates map[string]int
	deletes []string
	// deleteErr, when it returns non nil for an object, fails the delete call
	deleteErr func(obj client.Object) error
}

func key(obj client.Object) string {
	return obj.GetNamespace() + "/" + obj.GetName()
}

type clusterOption func(*clusterConfig)

type clusterConfig struct {
	namespacesActive bool
	objects          []client.Object
	deleteErr        func(obj client.Object) error
}

func withInactiveNamespaces() clusterOption {
	return func(c *clusterConfig) { c.namespacesActive = false }
}

func withObjects(objs ...client.Object) clusterOption {
	return func(c *clusterConfig) { c.objects = append(c.objects, objs...) }
}

func withDeleteError(fn func(obj client.Object) error) clusterOption {
	return func(c *clusterConfig) { c.deleteErr = fn }
}

// newCluster returns a fake client seeded with the opendatahub applications namespace. Namespaces
// report Active unless withInactiveNamespaces is given, since no namespace controller runs.
func newCluster(opts ...clusterOption) (client.Client, *recorder) {
	cfg := &clusterConfig{
		namespacesActive: true,
		objects:          []client.Object{namespace(constants.ODHApplicationsNamespace)},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rec := &recorder{creates: map[string]int{}, deleteErr: cfg.deleteErr}
	c := fake.NewClientBuilder().
		WithScheme(testScheme()).
		WithObjects(cfg.objects...).
		WithInterceptorFuncs(interceptor.Funcs{
			Get: func(ctx context.Context, c client.WithWatch, k client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
				if err := c.Get(ctx, k, obj, opts...); err != nil {
					return err
				}
				if ns, ok := obj.(*corev1.Namespace); ok && cfg.namespacesActive && ns.Status.Phase == "" {
					ns.Status.Phase = corev1.NamespaceActive
				}
				return nil
			},
			Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
				rec.mu.Lock()
				rec.creates[key(obj)]++
				rec.mu.Unlock()
				return c.Create(ctx, obj, opts...)
			},
			Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
				rec.mu.Lock()
				rec.deletes = append(rec.deletes, key(obj))
				rec.mu.Unlock()
				if rec.deleteErr != nil {
					if err := rec.deleteErr(obj); err != nil {
						return err
					}
				}
				return c.Delete(ctx, obj, opts...)
			},
		}).
		Build()

	return c, rec
}

func (r *recorder) createCount(k string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates[k]
}

func (r *recorder) deleteCount(k string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.deletes {
		if d == k {
			n++
		}
	}
	return n
}

func (r *recorder) deleteOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deletes...)
}

func requireAbsent(t *testing.T, c client.Client, obj client.Object) {
	t.Helper()
	err := c.Get(context.Background(), client.ObjectKeyFromObject(obj), obj)
	require.Truef(t, apierrors.IsNotFound(err), "%T %s still exists (err=%v)", obj, key(obj), err)
}

func requirePresent(t *testing.T, c client.Client, obj client.Object) {
	t.Helper()
	require.NoError(t, c.Get(context.Background(), client.ObjectKeyFromObject(obj), obj))
}
