// Package objectstore is a remote backend on an S3-compatible bucket
// (AWS S3, MinIO). Each user's collection is one JSON document at
// "{prefix}{collection}/{userID}.json".
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// objectAPI is the part of *s3.Client the backend needs.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures New. Endpoint is optional and switches the client to
// path-style addressing, which MinIO needs.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Seams for tests.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Backend implements remote.Backend and remote.Blobs.
type Backend struct {
	api    objectAPI
	bucket string
	prefix string

	// serializes read-modify-write cycles issued by this process
	mu sync.Mutex
}

var (
	_ remote.Backend = (*Backend)(nil)
	_ remote.Blobs   = (*Backend)(nil)
)

func New(ctx context.Context, opts Options) (*Backend, error) {
	if opts.Bucket == "" {
		return nil, errors.New("objectstore: bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	api := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newWithAPI(api, opts.Bucket, opts.Prefix), nil
}

func newWithAPI(api objectAPI, bucket, prefix string) *Backend {
	return &Backend{api: api, bucket: bucket, prefix: prefix}
}

// Get returns the object body, or (nil, nil) when the key does not exist.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", key, err)
	}
	return data, nil
}

func (b *Backend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.prefix + key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Contacts(userID string) remote.Table[models.ContactRow] {
	return remote.NewDocumentTable[models.ContactRow](b, &b.mu, remote.CollectionContacts, userID, remote.ContactColumns)
}

func (b *Backend) Calendars(userID string) remote.Table[models.CalendarRow] {
	return remote.NewDocumentTable[models.CalendarRow](b, &b.mu, remote.CollectionCalendars, userID, remote.CalendarColumns)
}

func (b *Backend) Appointments(userID string) remote.Table[models.AppointmentRow] {
	return remote.NewDocumentTable[models.AppointmentRow](b, &b.mu, remote.CollectionAppointments, userID, remote.AppointmentColumns)
}

func (b *Backend) Close() error { return nil }
