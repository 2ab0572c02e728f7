// Package minio provides a BlobStore backed by the MinIO client.
//
// It serves release stores on MinIO and other S3-compatible systems (Ceph,
// SeaweedFS, Garage) without pulling in the AWS SDK configuration chain.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "topic-maps",
//	    Prefix:    "prod/",
//	})
package minio
