package journal

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of *s3.Client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive uploads journal bundles to an S3 bucket.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1", Credentials: creds})
//	archive := journal.NewS3Archive(client, "my-bucket", "memodom/")
//	key, err := archive.Upload(ctx, j)
type S3Archive struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Archive creates an archive writing under prefix in bucket.
func NewS3Archive(client ObjectPutter, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

// Upload stores the journal's current entries as one object and returns
// its key. An empty journal uploads nothing and returns "".
func (a *S3Archive) Upload(ctx context.Context, j *Journal) (string, error) {
	entries := j.Entries()
	if len(entries) == 0 {
		return "", nil
	}
	first, last := entries[0].Seq, entries[len(entries)-1].Seq
	key := fmt.Sprintf("%s%020d-%020d.mdj", a.prefix, first, last)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(Bundle(entries)),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"batches":     strconv.Itoa(len(entries)),
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("journal: s3 upload failed: %w", err)
	}
	return key, nil
}
