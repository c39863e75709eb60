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
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
)

// DetectOperator resolves which operator flavour deployed model serving. A non empty override
// wins; otherwise the applications namespaces are probed, Open Data Hub first.
func DetectOperator(ctx context.Context, c client.Client, override string) (string, error) {
	switch override {
	case constants.ODHOperator, constants.RHOAIOperator:
		return override, nil
	case "":
	default:
		return "", errors.Errorf("unknown operator %q", override)
	}

	for _, operator := range []string{constants.ODHOperator, constants.RHOAIOperator} {
		ns := &corev1.Namespace{}
		err := c.Get(ctx, client.ObjectKey{Name: constants.ApplicationsNamespace(operator)}, ns)
		if err == nil {
			return operator, nil
		}
		if !apierrors.IsNotFound(err) {
			return "", errors.Wrapf(err, "failed to probe namespace %s", constants.ApplicationsNamespace(operator))
		}
	}

	return "", errors.Errorf("neither %s nor %s namespace found, is the operator installed?",
		constants.ODHApplicationsNamespace, constants.RHOAIApplicationsNamespace)
}
