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

package storage

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	s3credential "github.com/trustyai-explainability/trustyai-tests/pkg/credentials/s3"
)

// NewS3Client builds an S3 client for the data connection. The in-cluster endpoint is usually not
// reachable from the test process, so endpointOverride, when set, replaces it (e.g. a port-forward).
func NewS3Client(dc *s3credential.DataConnection, endpointOverride string) (*s3.S3, error) {
	endpoint := dc.Endpoint
	if endpointOverride != "" {
		endpoint = endpointOverride
	}

	probe := &s3credential.DataConnection{Endpoint: endpoint}
	awsConfig := aws.Config{
		Region:           aws.String(dc.Region),
		Endpoint:         aws.String(endpoint),
		Credentials:      credentials.NewStaticCredentials(dc.AccessKeyID, dc.SecretAccessKey, ""),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(!probe.UseHTTPS()),
	}

	sess, err := session.NewSession(&awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create aws session")
	}

	return s3.New(sess), nil
}

// BucketExists reports whether bucket can be reached with the client credentials.
func BucketExists(ctx context.Context, api s3iface.S3API, bucket string) (bool, error) {
	_, err := api.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return true, nil
	}

	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	var awsErr awserr.Error
	if errors.As(err, &awsErr) && (awsErr.Code() == s3.ErrCodeNoSuchBucket || awsErr.Code() == "NotFound") {
		return false, nil
	}

	return false, errors.Wrapf(err, "failed to head bucket %s", bucket)
}

// ListKeys returns the object keys stored under prefix.
func ListKeys(ctx context.Context, api s3iface.S3API, bucket, prefix string) ([]string, error) {
	var keys []string
	err := api.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, object := range page.Contents {
			keys = append(keys, aws.StringValue(object.Key))
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list objects in %s/%s", bucket, prefix)
	}
	return keys, nil
}
