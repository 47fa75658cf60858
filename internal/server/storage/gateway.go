// Package storage is the object store gateway: pre-signed upload and
// download URLs, server-side puts and deletes against an S3-compatible
// bucket (Cloudflare R2 in production, MinIO in development).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const (
	// UploadURLExpiry bounds the lifetime of a pre-signed PUT URL.
	UploadURLExpiry = 10 * time.Minute
	// DownloadURLExpiry bounds the lifetime of a pre-signed GET URL.
	DownloadURLExpiry = 5 * time.Minute
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Params configures a Gateway.
type Params struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// CustomDomain, when non-empty, makes DownloadURL return a direct
	// public URL instead of a signed one.
	CustomDomain string
	// UsePathStyle addresses the bucket in the path. MinIO needs it.
	UsePathStyle bool
}

// Gateway talks to one bucket. It holds no mutable state after New.
type Gateway struct {
	client       *s3.Client
	presign      *s3.PresignClient
	bucket       string
	customDomain string
	newID        func() string
}

// New builds a Gateway with static credentials against p.Endpoint.
func New(ctx context.Context, p Params) (*Gateway, error) {
	if p.Bucket == "" || p.Endpoint == "" {
		return nil, errors.New("storage: bucket and endpoint are required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.AccessKeyID,
			p.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.Endpoint)
		o.UsePathStyle = p.UsePathStyle
	})

	return &Gateway{
		client:       client,
		presign:      s3.NewPresignClient(client),
		bucket:       p.Bucket,
		customDomain: normalizeDomain(p.CustomDomain),
		newID:        uuid.NewString,
	}, nil
}

// PresignUpload mints a fresh object key with extension ext and a PUT URL
// for it, valid for UploadURLExpiry.
func (g *Gateway) PresignUpload(ctx context.Context, ext string) (string, string, error) {
	key := objectKey(g.newID(), ext)

	req, err := presignPutObject(g.presign, ctx, &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(UploadURLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("storage: presign put: %w", err)
	}

	return key, req.URL, nil
}

// PresignDownload returns a GET URL for key, valid for DownloadURLExpiry.
// The key is not checked for existence.
func (g *Gateway) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := presignGetObject(g.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(DownloadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("storage: presign get: %w", err)
	}
	return req.URL, nil
}

// DownloadURL picks the delivery URL for key: the public custom-domain URL
// when one is configured, a signed GET URL otherwise.
func (g *Gateway) DownloadURL(ctx context.Context, key string) (string, error) {
	if g.customDomain != "" {
		return "https://" + g.customDomain + "/" + key, nil
	}
	return g.PresignDownload(ctx, key)
}

// PutObject uploads body under key.
func (g *Gateway) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := g.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("storage: put object: %w", err)
	}
	return nil
}

// DeleteObject removes key. Deleting a key that does not exist succeeds.
func (g *Gateway) DeleteObject(ctx context.Context, key string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("storage: delete object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// FileExtension returns the part of name after its last dot, or "" when
// name has no dot.
func FileExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// objectKey joins id and ext. Characters outside [A-Za-z0-9] are dropped
// from ext so a client-supplied name cannot inject path segments.
func objectKey(id, ext string) string {
	ext = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, ext)
	if ext == "" {
		return id
	}
	return id + "." + ext
}

func normalizeDomain(d string) string {
	d = strings.TrimSpace(d)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimSuffix(d, "/")
}
