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

	"github.com/pkg/errors"
	rbacv1 "k8s.io/api/rbac/v1"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
	"github.com/trustyai-explainability/trustyai-tests/pkg/credentials/s3"
	"github.com/trustyai-explainability/trustyai-tests/pkg/resources"
)

// Class holds the fixtures shared by the tests of one class: the model namespace and everything
// created inside it. Closing the class deletes them in reverse order of creation.
type Class struct {
	session *Session
	scope   *Scope

	modelNamespace          memo[*resources.Namespace]
	modelMeshServiceAccount memo[*resources.ServiceAccount]
	trustyAIService         memo[*resources.TrustyAIService]
	minioService            memo[*resources.Service]
	minioPod                memo[*resources.Pod]
	minioSecret             memo[*resources.Secret]
	minioDataConnection     memo[*resources.Secret]
}

func (c *Class) Session() *Session {
	return c.session
}

func (c *Class) Scope() *Scope {
	return c.scope
}

// Close tears down every class fixture.
func (c *Class) Close(ctx context.Context) error {
	return c.scope.Close(ctx)
}

// ModelNamespace creates the modelmesh enabled namespace and waits for it to become Active. The
// test user service account and its view role binding are deployed into it and go away with it.
func (c *Class) ModelNamespace(ctx context.Context) (*resources.Namespace, error) {
	return c.modelNamespace.get(func() (*resources.Namespace, error) {
		s := c.session
		logger := s.logger(ctx)

		ns := resources.NewNamespace(s.client, constants.ModelNamespaceName,
			map[string]string{constants.ModelMeshEnabledLabelKey: "true"},
			s.options(logger, resources.WithDeleteTimeout(s.opts.NamespaceDeleteTimeout))...)
		if err := ns.Create(ctx); err != nil {
			return nil, err
		}
		c.scope.Defer("Namespace "+ns.Name(), ns.Delete)

		if err := ns.WaitForStatus(ctx, resources.NamespaceActive, s.opts.NamespaceActiveTimeout); err != nil {
			return nil, err
		}

		sa := resources.NewServiceAccount(s.client, constants.TestUserName, ns.Name(), s.options(logger)...)
		if err := sa.Deploy(ctx); err != nil {
			return nil, err
		}

		rb := resources.NewRoleBinding(s.client, constants.TestUserRoleBindingName, ns.Name(),
			resources.ClusterRoleRef(constants.TestUserClusterRoleName),
			[]rbacv1.Subject{resources.ServiceAccountSubject(constants.TestUserName, ns.Name())},
			s.options(logger)...)
		if err := rb.Deploy(ctx); err != nil {
			return nil, err
		}

		return ns, nil
	})
}

// ModelMeshServiceAccount creates the service account modelmesh runtimes run as.
func (c *Class) ModelMeshServiceAccount(ctx context.Context) (*resources.ServiceAccount, error) {
	return c.modelMeshServiceAccount.get(func() (*resources.ServiceAccount, error) {
		ns, err := c.ModelNamespace(ctx)
		if err != nil {
			return nil, err
		}
		s := c.session
		sa := resources.NewServiceAccount(s.client, constants.ModelMeshServiceAccountName, ns.Name(), s.options(s.logger(ctx))...)
		if err := c.create(ctx, sa); err != nil {
			return nil, err
		}
		return sa, nil
	})
}

// TrustyAIServiceObject returns the desired TrustyAIService under test.
func TrustyAIServiceObject(namespace string) *v1alpha1.TrustyAIService {
	return resources.TrustyAIServiceObject(constants.TrustyAIServiceName,
		resources.InNamespace[*v1alpha1.TrustyAIService](namespace),
		resources.WithPVCStorage("/inputs", "1Gi"),
		resources.WithData("data.csv", "CSV"),
		resources.WithMetricsSchedule("5s"),
	)
}

// TrustyAIService creates the service under test once its namespace, the modelmesh service
// account and both monitoring configs are in place.
func (c *Class) TrustyAIService(ctx context.Context) (*resources.TrustyAIService, error) {
	return c.trustyAIService.get(func() (*resources.TrustyAIService, error) {
		ns, err := c.ModelNamespace(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := c.ModelMeshServiceAccount(ctx); err != nil {
			return nil, err
		}
		if _, err := c.session.ClusterMonitoringConfig(ctx); err != nil {
			return nil, err
		}
		if _, err := c.session.UserWorkloadMonitoringConfig(ctx); err != nil {
			return nil, err
		}

		s := c.session
		svc := resources.NewTrustyAIService(s.client, TrustyAIServiceObject(ns.Name()), s.options(s.logger(ctx))...)
		if err := c.create(ctx, svc); err != nil {
			return nil, err
		}
		return svc, nil
	})
}

func (c *Class) MinioService(ctx context.Context) (*resources.Service, error) {
	return c.minioService.get(func() (*resources.Service, error) {
		ns, err := c.ModelNamespace(ctx)
		if err != nil {
			return nil, err
		}
		s := c.session
		svc := resources.NewService(s.client,
			resources.MinioServiceObject(constants.MinioName, ns.Name(), constants.MinioPort, constants.MinioPort),
			s.options(s.logger(ctx))...)
		if err := c.create(ctx, svc); err != nil {
			return nil, err
		}
		return svc, nil
	})
}

func (c *Class) MinioPod(ctx context.Context) (*resources.Pod, error) {
	return c.minioPod.get(func() (*resources.Pod, error) {
		ns, err := c.ModelNamespace(ctx)
		if err != nil {
			return nil, err
		}
		s := c.session
		pod := resources.NewPod(s.client,
			resources.MinioPodObject(constants.MinioName, ns.Name(), constants.MinioImage, s3.MinioDataConnection()),
			s.options(s.logger(ctx))...)
		if err := c.create(ctx, pod); err != nil {
			return nil, err
		}
		return pod, nil
	})
}

func (c *Class) MinioSecret(ctx context.Context) (*resources.Secret, error) {
	return c.minioSecret.get(func() (*resources.Secret, error) {
		ns, err := c.ModelNamespace(ctx)
		if err != nil {
			return nil, err
		}
		s := c.session
		secret := resources.NewSecret(s.client,
			resources.MinioSecretObject(constants.MinioDataConnection, ns.Name(), s3.MinioDataConnection()),
			s.options(s.logger(ctx))...)
		if err := c.create(ctx, secret); err != nil {
			return nil, err
		}
		return secret, nil
	})
}

// MinioDataConnection brings up the minio service, pod and secret and returns the secret
// describing the connection.
func (c *Class) MinioDataConnection(ctx context.Context) (*resources.Secret, error) {
	return c.minioDataConnection.get(func() (*resources.Secret, error) {
		if _, err := c.MinioService(ctx); err != nil {
			return nil, err
		}
		if _, err := c.MinioPod(ctx); err != nil {
			return nil, err
		}
		return c.MinioSecret(ctx)
	})
}

type creatable interface {
	Create(ctx context.Context) error
	Delete(ctx context.Context) error
	Kind() string
	Name() string
	Namespace() string
}

// create submits r and registers its deletion with the class scope.
func (c *Class) create(ctx context.Context, r creatable) error {
	if err := r.Create(ctx); err != nil {
		return errors.Wrapf(err, "class %s", c.scope.Name())
	}
	c.scope.Defer(r.Kind()+" "+r.Namespace()+"/"+r.Name(), r.Delete)
	return nil
}
