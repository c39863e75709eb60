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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
)

type ConfigMap struct {
	*Resource[*corev1.ConfigMap]
}

func NewConfigMap(c client.Client, name, namespace string, data map[string]string, opts ...Option) *ConfigMap {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Data: data,
	}
	return &ConfigMap{Resource: New(c, cm, opts...)}
}

// Value returns the live value stored under key.
func (cm *ConfigMap) Value(ctx context.Context, key string) (string, error) {
	live, err := cm.Instance(ctx)
	if err != nil {
		return "", err
	}
	value, ok := live.Data[key]
	if !ok {
		return "", errors.Wrapf(ErrFieldNotFound, "data.%s in ConfigMap %s", key, cm.Key())
	}
	return value, nil
}

// ConfigYAML serializes config as the config.yaml entry of a ConfigMap data map.
func ConfigYAML(config any) (map[string]string, error) {
	raw, err := yaml.Marshal(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config.yaml")
	}
	return map[string]string{constants.ConfigFileName: string(raw)}, nil
}
