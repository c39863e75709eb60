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

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/yaml"

	"github.com/trustyai-explainability/trustyai-tests/pkg/config"
	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
	"github.com/trustyai-explainability/trustyai-tests/pkg/resources"
)

// Session holds the fixtures that live for the whole test run: the shared config maps in the
// applications and monitoring namespaces.
type Session struct {
	client client.Client
	opts   config.Options
	scope  *Scope

	applicationsNamespace        memo[*resources.Namespace]
	modelMeshConfigMap           memo[*resources.ConfigMap]
	clusterMonitoringConfig      memo[*resources.ConfigMap]
	userWorkloadMonitoringConfig memo[*resources.ConfigMap]
}

func NewSession(c client.Client, opts config.Options) *Session {
	return &Session{
		client: c,
		opts:   opts,
		scope:  NewScope("session", logf.Log.WithName("fixture").WithValues("run", opts.RunID)),
	}
}

func (s *Session) Client() client.Client {
	return s.client
}

func (s *Session) Options() config.Options {
	return s.opts
}

func (s *Session) RunID() string {
	return s.opts.RunID
}

func (s *Session) Scope() *Scope {
	return s.scope
}

// UseModelMeshImage reports whether the modelmesh image reference goes into the model serving config.
func (s *Session) UseModelMeshImage() bool {
	return s.opts.UseModelMeshImage
}

// Setup acquires the fixtures every test depends on implicitly.
func (s *Session) Setup(ctx context.Context) error {
	_, err := s.ModelMeshConfigMap(ctx)
	return err
}

// Close tears down the session fixtures.
func (s *Session) Close(ctx context.Context) error {
	return s.scope.Close(ctx)
}

// NewClass opens a class scope sharing this session.
func (s *Session) NewClass(name string) *Class {
	return &Class{
		session: s,
		scope:   NewScope(name, logf.Log.WithName("fixture").WithValues("run", s.opts.RunID)),
	}
}

func (s *Session) logger(ctx context.Context) logr.Logger {
	return logf.FromContext(ctx).WithName("fixture").WithValues("run", s.opts.RunID)
}

func (s *Session) options(logger logr.Logger, extra ...resources.Option) []resources.Option {
	opts := []resources.Option{
		resources.WithLogger(logger),
		resources.WithPollInterval(s.opts.PollInterval),
		resources.WithDeleteTimeout(s.opts.ResourceDeleteTimeout),
		resources.WithLabels(map[string]string{constants.RunIDLabelKey: s.opts.RunID}),
	}
	return append(opts, extra...)
}

// ApplicationsNamespace returns the namespace the operator deploys its applications into. It
// must already exist.
func (s *Session) ApplicationsNamespace(ctx context.Context) (*resources.Namespace, error) {
	return s.applicationsNamespace.get(func() (*resources.Namespace, error) {
		logger := s.logger(ctx)

		operator, err := DetectOperator(ctx, s.client, s.opts.Operator)
		if err != nil {
			return nil, err
		}

		name := constants.ApplicationsNamespace(operator)
		ns := resources.NewNamespace(s.client, name, nil,
			resources.WithTeardown(false), resources.WithLogger(logger))
		exists, err := ns.Exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.Errorf("applications namespace %s of operator %s does not exist", name, operator)
		}

		logger.Info("Using applications namespace", "namespace", name, "operator", operator)
		return ns, nil
	})
}

// ModelServingConfig returns the config.yaml content of the model serving config map.
func ModelServingConfig(useModelMeshImage bool) map[string]any {
	cfg := map[string]any{
		"podsPerRuntime": 1,
	}
	if useModelMeshImage {
		cfg["modelMeshImage"] = map[string]any{
			"name": constants.ModelMeshImageName,
			"tag":  constants.ModelMeshImageTag,
		}
	}
	return cfg
}

// ModelMeshConfigMap creates the model serving config in the applications namespace.
func (s *Session) ModelMeshConfigMap(ctx context.Context) (*resources.ConfigMap, error) {
	return s.modelMeshConfigMap.get(func() (*resources.ConfigMap, error) {
		ns, err := s.ApplicationsNamespace(ctx)
		if err != nil {
			return nil, err
		}
		cm, err := s.sharedConfigMap(ctx, constants.ModelServingConfigMapName, ns.Name(),
			ModelServingConfig(s.UseModelMeshImage()))
		if err != nil {
			return nil, err
		}
		if s.UseModelMeshImage() && !cm.Teardown() {
			if err := requireModelMeshImage(ctx, cm); err != nil {
				return nil, err
			}
		}
		return cm, nil
	})
}

// requireModelMeshImage fails when a model serving config created outside this run does not
// reference a modelmesh image, since the requested image would otherwise be ignored.
func requireModelMeshImage(ctx context.Context, cm *resources.ConfigMap) error {
	raw, err := cm.Value(ctx, constants.ConfigFileName)
	if err != nil && !errors.Is(err, resources.ErrFieldNotFound) {
		return err
	}

	cfg := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		return errors.Wrapf(err, "failed to parse %s of ConfigMap %s", constants.ConfigFileName, cm.Key())
	}
	if _, ok := cfg["modelMeshImage"]; !ok {
		return errors.Errorf("ConfigMap %s already exists without modelMeshImage, delete it to use the modelmesh image", cm.Key())
	}
	return nil
}

// ClusterMonitoringConfig enables user workload monitoring.
func (s *Session) ClusterMonitoringConfig(ctx context.Context) (*resources.ConfigMap, error) {
	return s.clusterMonitoringConfig.get(func() (*resources.ConfigMap, error) {
		return s.sharedConfigMap(ctx, constants.ClusterMonitoringConfigMapName, constants.ClusterMonitoringNamespace,
			map[string]any{"enableUserWorkload": "true"})
	})
}

// UserWorkloadMonitoringConfig configures the user workload prometheus.
func (s *Session) UserWorkloadMonitoringConfig(ctx context.Context) (*resources.ConfigMap, error) {
	return s.userWorkloadMonitoringConfig.get(func() (*resources.ConfigMap, error) {
		return s.sharedConfigMap(ctx, constants.UserWorkloadMonitoringConfigName, constants.UserWorkloadMonitoringNamespace,
			map[string]any{
				"prometheus": map[string]any{
					"logLevel":  "debug",
					"retention": "15d",
				},
			})
	})
}

// sharedConfigMap creates a session config map. When one already exists it is left alone and a
// read handle that is never torn down is returned instead.
func (s *Session) sharedConfigMap(ctx context.Context, name, namespace string, cfg map[string]any) (*resources.ConfigMap, error) {
	logger := s.logger(ctx)

	data, err := resources.ConfigYAML(cfg)
	if err != nil {
		return nil, err
	}

	cm := resources.NewConfigMap(s.client, name, namespace, data, s.options(logger)...)
	if err := cm.Create(ctx); err != nil {
		if resources.IsConflict(err) {
			logger.Info("ConfigMap already exists, using it as is", "name", name, "namespace", namespace)
			return resources.NewConfigMap(s.client, name, namespace, nil,
				resources.WithTeardown(false), resources.WithLogger(logger)), nil
		}
		return nil, err
	}

	s.scope.Defer("ConfigMap "+namespace+"/"+name, cm.Delete)
	return cm, nil
}
