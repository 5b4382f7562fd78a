package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	apperrors "watermark-service/pkg/errors"
)

// Download streams an object addressed by its canonical store URL into
// destPath. The bucket named in the URL is fetched from as-is, so assets
// recorded against sibling buckets on the same host stay readable.
// Objects larger than maxBytes are rejected, using the declared content
// length when available and counting bytes on the wire otherwise.
func (c *Client) Download(ctx context.Context, rawURL, destPath string, maxBytes int64) error {
	bucket, objectKey, err := c.parseObjectURL(rawURL)
	if err != nil {
		return err
	}

	out, err := c.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return apperrors.StoreTransport(fmt.Sprintf("failed to fetch object: %s", objectKey), err)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && *out.ContentLength > maxBytes {
		return apperrors.FileSizeExceeded(fmt.Sprintf("object %s is %d bytes, limit is %d", objectKey, *out.ContentLength, maxBytes))
	}

	f, err := os.Create(destPath)
	if err != nil {
		return apperrors.StoreTransport("failed to create download target", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(out.Body, maxBytes+1))
	if err != nil {
		return apperrors.StoreTransport(fmt.Sprintf("failed to stream object: %s", objectKey), err)
	}
	if written > maxBytes {
		return apperrors.FileSizeExceeded(fmt.Sprintf("object %s exceeds %d byte limit", objectKey, maxBytes))
	}

	return nil
}

// Upload stores the file at path under objectKey and returns the canonical
// store URL for the new object.
func (c *Client) Upload(ctx context.Context, objectKey, path, contentType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.StoreTransport("failed to open upload source", err)
	}
	defer f.Close()

	_, err = c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperrors.StoreTransport(fmt.Sprintf("failed to upload object: %s", objectKey), err)
	}

	return c.objectURL(objectKey), nil
}

// objectURL builds the canonical https://<host>/<bucket>/<key> form.
func (c *Client) objectURL(objectKey string) string {
	return fmt.Sprintf("https://%s/%s/%s", c.storeHost, c.bucketName, objectKey)
}

// parseObjectURL splits a canonical store URL into its bucket and object
// key, rejecting URLs that point at a foreign host. The bucket segment is
// returned as parsed rather than checked against the upload bucket.
func (c *Client) parseObjectURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", apperrors.StoreTransport(fmt.Sprintf("malformed store URL: %s", rawURL), err)
	}

	if u.Scheme != "https" || u.Host != c.storeHost {
		return "", "", apperrors.StoreTransport(fmt.Sprintf("URL does not address the configured store: %s", rawURL), nil)
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !ok || key == "" {
		return "", "", apperrors.StoreTransport(fmt.Sprintf("store URL missing object path: %s", rawURL), nil)
	}

	return bucket, key, nil
}
