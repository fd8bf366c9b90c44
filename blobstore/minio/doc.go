// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. This package
// uses the official MinIO Go client library for optimal compatibility with MinIO
// and other S3-compatible storage systems like Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	store, err := minioblob.New("localhost:9000", "my-bucket", "minioadmin", "minioadmin", false,
//	    minioblob.WithPrefix("columns"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fs, err := featcol.Open(featcol.WithBlobStore(store))
//
// A Blob is pinned to the object version seen by Open. If the object is
// replaced before the read, for example by a concurrent Snapshot, reads fail
// with ErrChanged instead of mixing bytes of two snapshots.
//
// # Features
//
//   - Native MinIO client with optimal performance
//   - Works with any S3-compatible storage (Ceph, Garage, SeaweedFS)
//   - Streaming uploads for large column snapshots
//   - Air-gap friendly (no AWS dependencies required)
//
// # Existing Clients
//
// NewStore wraps a configured client, e.g. with a region or IAM credentials:
//
//	client, _ := minio.New("s3.example.com:9000", &minio.Options{
//	    Creds:  credentials.NewIAM(""),
//	    Secure: true,
//	    Region: "eu-west-1",
//	})
//	store := minioblob.NewStore(client, "my-bucket", minioblob.WithPartSize(16<<20))
package minio
