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
	"context"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	knservingv1 "knative.dev/serving/pkg/apis/serving/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// RouteGVK identifies the knative serving Route kind.
var RouteGVK = knservingv1.SchemeGroupVersion.WithKind("Route")

// Route is a handle over a knative serving Route. The object is kept unstructured so the handle
// works against clusters whose serving version differs from the vendored types.
type Route struct {
	*Resource[*unstructured.Unstructured]
}

func NewRoute(c client.Client, name, namespace string, opts ...Option) *Route {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(RouteGVK)
	u.SetName(name)
	u.SetNamespace(namespace)
	return &Route{Resource: New(c, u, opts...)}
}

// hostFields are the address paths Host reads, in order.
var hostFields = [][]string{
	{"spec", "status", "address", "url"},
	{"status", "address", "url"},
}

// Host returns the URL the route is exposed on, read verbatim from spec.status.address.url, or
// from status.address.url where knative itself reports it.
func (r *Route) Host(ctx context.Context) (string, error) {
	content, err := r.content(ctx)
	if err != nil {
		return "", err
	}

	var lastErr error
	for _, fields := range hostFields {
		host, err := nestedString(content, fields...)
		if err == nil {
			return host, nil
		}
		if !errors.Is(err, ErrFieldNotFound) {
			return "", errors.Wrapf(err, "route %s", r.Key())
		}
		lastErr = err
	}
	return "", errors.Wrapf(lastErr, "route %s has no address", r.Key())
}

// Typed converts the live route into the knative serving type.
func (r *Route) Typed(ctx context.Context) (*knservingv1.Route, error) {
	live, err := r.Instance(ctx)
	if err != nil {
		return nil, err
	}
	route := &knservingv1.Route{}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(live.UnstructuredContent(), route); err != nil {
		return nil, errors.Wrapf(err, "failed to convert route %s", r.Key())
	}
	return route, nil
}
