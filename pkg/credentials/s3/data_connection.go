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

package s3

import (
	"net/url"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
)

/*
For a quick reference about AWS ENV variables:
AWS Cli: https://docs.aws.amazon.com/cli/latest/userguide/cli-configure-envvars.html
The data connection secret keys follow the names the dashboard writes for s3 connections.
*/
const (
	AWSAccessKeyId     = "AWS_ACCESS_KEY_ID"
	AWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	AWSRegion          = "AWS_DEFAULT_REGION"
	AWSS3Bucket        = "AWS_S3_BUCKET"
	AWSS3Endpoint      = "AWS_S3_ENDPOINT"
)

// DataConnection is the decoded content of an s3 data connection secret.
type DataConnection struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string
}

// MinioDataConnection returns the dummy credentials served by the minio example image.
func MinioDataConnection() *DataConnection {
	return &DataConnection{
		AccessKeyID:     "THEACCESSKEY",
		SecretAccessKey: "THESECRETKEY",
		Region:          "us-south",
		Bucket:          "modelmesh-example-models",
		Endpoint:        "http://minio:9000",
	}
}

// SecretData renders the connection as secret data. The API server base64 encodes the values.
func (dc *DataConnection) SecretData() map[string][]byte {
	return map[string][]byte{
		AWSAccessKeyId:     []byte(dc.AccessKeyID),
		AWSRegion:          []byte(dc.Region),
		AWSS3Bucket:        []byte(dc.Bucket),
		AWSS3Endpoint:      []byte(dc.Endpoint),
		AWSSecretAccessKey: []byte(dc.SecretAccessKey),
	}
}

// UseHTTPS reports whether the endpoint uses the https scheme.
func (dc *DataConnection) UseHTTPS() bool {
	u, err := url.Parse(dc.Endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}

// DataConnectionFromSecret decodes an s3 data connection secret. Every key is required.
func DataConnectionFromSecret(secret *corev1.Secret) (*DataConnection, error) {
	if secret == nil {
		return nil, errors.New("secret is nil")
	}

	lookup := func(key string) (string, error) {
		if v, ok := secret.Data[key]; ok && len(v) > 0 {
			return string(v), nil
		}
		if v, ok := secret.StringData[key]; ok && v != "" {
			return v, nil
		}
		return "", errors.Errorf("secret %s/%s is missing key %s", secret.Namespace, secret.Name, key)
	}

	dc := &DataConnection{}
	for key, field := range map[string]*string{
		AWSAccessKeyId:     &dc.AccessKeyID,
		AWSSecretAccessKey: &dc.SecretAccessKey,
		AWSRegion:          &dc.Region,
		AWSS3Bucket:        &dc.Bucket,
		AWSS3Endpoint:      &dc.Endpoint,
	} {
		v, err := lookup(key)
		if err != nil {
			return nil, err
		}
		*field = v
	}

	if _, err := url.Parse(dc.Endpoint); err != nil {
		return nil, errors.Wrapf(err, "invalid %s in secret %s/%s", AWSS3Endpoint, secret.Namespace, secret.Name)
	}

	return dc, nil
}
