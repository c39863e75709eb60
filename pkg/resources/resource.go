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
	"fmt"
	"reflect"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
)

var log = logf.Log.WithName("resources")

type settings struct {
	teardown      bool
	deleteTimeout time.Duration
	pollInterval  time.Duration
	labels        map[string]string
	log           logr.Logger
}

// Option configures a Resource handle.
type Option func(*settings)

// WithTeardown controls whether the owning fixture scope deletes the object on exit.
func WithTeardown(teardown bool) Option {
	return func(s *settings) {
		s.teardown = teardown
	}
}

// WithDeleteTimeout bounds how long Delete waits for the object to disappear.
// A zero timeout makes Delete return as soon as the API server accepted the request.
func WithDeleteTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.deleteTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.pollInterval = interval
	}
}

func WithLogger(logger logr.Logger) Option {
	return func(s *settings) {
		s.log = logger
	}
}

// WithLabels merges labels into the desired object.
func WithLabels(labels map[string]string) Option {
	return func(s *settings) {
		if s.labels == nil {
			s.labels = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			s.labels[k] = v
		}
	}
}

// Resource is a handle over a single cluster object of kind T. The object passed to New is
// the desired state; live state is read on demand through Instance.
type Resource[T client.Object] struct {
	client        client.Client
	obj           T
	teardown      bool
	deleteTimeout time.Duration
	pollInterval  time.Duration
	log           logr.Logger
}

// New creates a handle for obj. Nothing is sent to the cluster until Create or Deploy is called.
func New[T client.Object](c client.Client, obj T, opts ...Option) *Resource[T] {
	s := &settings{
		teardown:      true,
		deleteTimeout: constants.DefaultResourceDeleteTimeout,
		pollInterval:  constants.DefaultPollInterval,
		log:           log,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.labels) > 0 {
		labels := obj.GetLabels()
		if labels == nil {
			labels = make(map[string]string, len(s.labels))
		}
		for k, v := range s.labels {
			labels[k] = v
		}
		obj.SetLabels(labels)
	}

	r := &Resource[T]{
		client:        c,
		obj:           obj,
		teardown:      s.teardown,
		deleteTimeout: s.deleteTimeout,
		pollInterval:  s.pollInterval,
	}
	r.log = s.log.WithValues("kind", r.Kind(), "name", obj.GetName())
	if ns := obj.GetNamespace(); ns != "" {
		r.log = r.log.WithValues("namespace", ns)
	}

	return r
}

func (r *Resource[T]) Name() string {
	return r.obj.GetName()
}

func (r *Resource[T]) Namespace() string {
	return r.obj.GetNamespace()
}

func (r *Resource[T]) Key() types.NamespacedName {
	return client.ObjectKeyFromObject(r.obj)
}

// Object returns the desired state the handle was built with.
func (r *Resource[T]) Object() T {
	return r.obj
}

// Kind resolves the object kind from the client scheme, falling back to the Go type name.
func (r *Resource[T]) Kind() string {
	if gvk := r.obj.GetObjectKind().GroupVersionKind(); gvk.Kind != "" {
		return gvk.Kind
	}
	if r.client != nil {
		if gvk, err := apiutil.GVKForObject(r.obj, r.client.Scheme()); err == nil {
			return gvk.Kind
		}
	}
	return reflect.TypeOf(r.obj).Elem().Name()
}

// Teardown reports whether the owning scope is expected to delete the object.
func (r *Resource[T]) Teardown() bool {
	return r.teardown
}

func (r *Resource[T]) DeleteTimeout() time.Duration {
	return r.deleteTimeout
}

// Create submits the desired object. An AlreadyExists answer is returned as *ConflictError.
func (r *Resource[T]) Create(ctx context.Context) error {
	obj, ok := r.obj.DeepCopyObject().(T)
	if !ok {
		return fmt.Errorf("unable to copy %s %s", r.Kind(), r.Key())
	}

	r.log.Info("Creating resource")
	if err := r.client.Create(ctx, obj); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return &ConflictError{Kind: r.Kind(), Key: r.Key(), Err: err}
		}
		return errors.Wrapf(err, "failed to create %s %s", r.Kind(), r.Key())
	}

	return nil
}

// Deploy creates an object whose lifetime is bound to its parent rather than to a fixture scope.
func (r *Resource[T]) Deploy(ctx context.Context) error {
	r.teardown = false
	return r.Create(ctx)
}

// Delete removes the object, ignoring NotFound, and waits for it to disappear when a delete
// timeout is configured.
func (r *Resource[T]) Delete(ctx context.Context) error {
	obj, ok := r.obj.DeepCopyObject().(T)
	if !ok {
		return fmt.Errorf("unable to copy %s %s", r.Kind(), r.Key())
	}

	r.log.Info("Deleting resource")
	if err := r.client.Delete(ctx, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to delete %s %s", r.Kind(), r.Key())
	}

	if r.deleteTimeout <= 0 {
		return nil
	}

	return r.WaitDeleted(ctx, r.deleteTimeout)
}

func (r *Resource[T]) Exists(ctx context.Context) (bool, error) {
	if _, err := r.Instance(ctx); err != nil {
		if apierrors.IsNotFound(errors.Cause(err)) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Instance reads the live object from the cluster.
func (r *Resource[T]) Instance(ctx context.Context) (T, error) {
	obj := r.newObject()
	if err := r.client.Get(ctx, r.Key(), obj); err != nil {
		var zero T
		return zero, errors.Wrapf(err, "failed to get %s %s", r.Kind(), r.Key())
	}
	return obj, nil
}

func (r *Resource[T]) newObject() T {
	if u, ok := any(r.obj).(*unstructured.Unstructured); ok {
		fresh := &unstructured.Unstructured{}
		fresh.SetGroupVersionKind(u.GroupVersionKind())
		return any(fresh).(T)
	}
	return reflect.New(reflect.TypeOf(r.obj).Elem()).Interface().(T)
}
