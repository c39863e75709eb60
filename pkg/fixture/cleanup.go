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
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
)

// Cleanup deletes what an interrupted run left behind: every object labelled with runID, or with
// any run id when runID is empty. Namespaced kinds go first, namespaces last. It returns the
// number of objects deleted.
func Cleanup(ctx context.Context, c client.Client, runID string) (int, error) {
	logger := logf.FromContext(ctx).WithName("cleanup")

	var selector client.ListOption = client.HasLabels{constants.RunIDLabelKey}
	if runID != "" {
		selector = client.MatchingLabels{constants.RunIDLabelKey: runID}
	}

	lists := []client.ObjectList{
		&v1alpha1.TrustyAIServiceList{},
		&corev1.PodList{},
		&corev1.ServiceList{},
		&corev1.SecretList{},
		&rbacv1.RoleBindingList{},
		&corev1.ServiceAccountList{},
		&corev1.ConfigMapList{},
		&corev1.NamespaceList{},
	}

	var result *multierror.Error
	deleted := 0
	for _, list := range lists {
		if err := c.List(ctx, list, selector); err != nil {
			if meta.IsNoMatchError(err) {
				logger.Info("Kind not served by the cluster, skipping", "list", fmt.Sprintf("%T", list))
				continue
			}
			result = multierror.Append(result, errors.Wrapf(err, "failed to list %T", list))
			continue
		}

		items, err := meta.ExtractList(list)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to extract %T", list))
			continue
		}

		for _, item := range items {
			obj, ok := item.(client.Object)
			if !ok {
				continue
			}
			logger.Info("Deleting leftover", "object", fmt.Sprintf("%T", obj),
				"namespace", obj.GetNamespace(), "name", obj.GetName())
			if err := c.Delete(ctx, obj); err != nil {
				if apierrors.IsNotFound(err) {
					continue
				}
				result = multierror.Append(result, errors.Wrapf(err, "failed to delete %s/%s", obj.GetNamespace(), obj.GetName()))
				continue
			}
			deleted++
		}
	}

	return deleted, result.ErrorOrNil()
}
