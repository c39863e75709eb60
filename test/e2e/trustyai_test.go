//go:build e2e

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

package e2e

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
	s3credential "github.com/trustyai-explainability/trustyai-tests/pkg/credentials/s3"
	"github.com/trustyai-explainability/trustyai-tests/pkg/fixture"
	"github.com/trustyai-explainability/trustyai-tests/pkg/resources"
	"github.com/trustyai-explainability/trustyai-tests/pkg/storage"
	pkgtest "github.com/trustyai-explainability/trustyai-tests/pkg/testing"
)

const (
	trustyAIReadyTimeout = 5 * time.Minute
	minioRunningTimeout  = 3 * time.Minute
)

var _ = Describe("Model serving config", func() {
	It("carries the modelmesh image only when requested", func(ctx SpecContext) {
		cm, err := session.ModelMeshConfigMap(ctx)
		Expect(err).NotTo(HaveOccurred())
		live, err := cm.Instance(ctx)
		Expect(err).NotTo(HaveOccurred())
		if !cm.Teardown() {
			// a pre-existing config is only accepted when it already names an image
			if session.UseModelMeshImage() {
				Expect(live).To(pkgtest.HaveConfigKey("modelMeshImage.name"))
				return
			}
			Skip("the model serving config existed before the run")
		}
		if session.UseModelMeshImage() {
			Expect(live).To(pkgtest.HaveConfigValue("modelMeshImage.name", constants.ModelMeshImageName))
			Expect(live).To(pkgtest.HaveConfigValue("modelMeshImage.tag", constants.ModelMeshImageTag))
		} else {
			Expect(live).NotTo(pkgtest.HaveConfigKey("modelMeshImage"))
		}
	})
})

var _ = Describe("TrustyAIService", Ordered, func() {
	var class *fixture.Class

	BeforeAll(func() {
		class = session.NewClass("trustyai-service")
		fixture.DeferCleanup(class.Scope())
	})

	It("becomes ready in the model namespace", func(ctx SpecContext) {
		svc, err := class.TrustyAIService(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(svc.WaitForStatus(ctx, v1alpha1.PhaseReady, trustyAIReadyTimeout)).To(Succeed())

		live, err := svc.Instance(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(live).To(pkgtest.HavePhase(v1alpha1.PhaseReady))
	})

	It("enables user workload monitoring", func(ctx SpecContext) {
		cm, err := session.ClusterMonitoringConfig(ctx)
		Expect(err).NotTo(HaveOccurred())

		live, err := cm.Instance(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(live).To(pkgtest.HaveConfigValue("enableUserWorkload", "true"))
	})
})

var _ = Describe("Minio data connection", Ordered, func() {
	var class *fixture.Class

	BeforeAll(func() {
		class = session.NewClass("minio")
		fixture.DeferCleanup(class.Scope())
	})

	It("runs the minio pod with the example models image", func(ctx SpecContext) {
		_, err := class.MinioDataConnection(ctx)
		Expect(err).NotTo(HaveOccurred())

		pod, err := class.MinioPod(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(pod.WaitForStatus(ctx, resources.PodRunning, minioRunningTimeout)).To(Succeed())

		live, err := pod.Instance(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(live).To(pkgtest.HaveContainerImage(constants.MinioImage))
	})

	It("serves the bucket named by the connection secret", func(ctx SpecContext) {
		endpoint := os.Getenv("MINIO_ENDPOINT")
		if endpoint == "" {
			Skip("MINIO_ENDPOINT is not set, port-forward the minio service to probe the bucket")
		}

		secret, err := class.MinioSecret(ctx)
		Expect(err).NotTo(HaveOccurred())
		live, err := secret.Instance(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(live).To(pkgtest.HaveAnnotation("opendatahub.io/connection-type", "s3"))

		dc, err := s3credential.DataConnectionFromSecret(live)
		Expect(err).NotTo(HaveOccurred())

		api, err := storage.NewS3Client(dc, endpoint)
		Expect(err).NotTo(HaveOccurred())
		Eventually(func() (bool, error) {
			return storage.BucketExists(ctx, api, dc.Bucket)
		}).WithTimeout(time.Minute).WithPolling(2 * time.Second).Should(BeTrue())

		keys, err := storage.ListKeys(ctx, api, dc.Bucket, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).NotTo(BeEmpty())
	})
})
