package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestBlobs_GetMissingIsNil(t *testing.T) {
	b := newWithAPI(newFakeS3(), "crm", "")

	data, err := b.Get(context.Background(), "contacts/u1.json")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestBlobs_PutThenGetUsesPrefix(t *testing.T) {
	fake := newFakeS3()
	b := newWithAPI(fake, "crm", "tenant-a/")
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "k.json", []byte(`[]`)))
	assert.Contains(t, fake.objects, "crm/tenant-a/k.json")

	data, err := b.Get(ctx, "k.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)
}

func TestBlobs_ErrorsWrapped(t *testing.T) {
	fake := newFakeS3()
	boom := errors.New("connection refused")
	fake.getErr, fake.putErr = boom, boom
	b := newWithAPI(fake, "crm", "")

	_, err := b.Get(context.Background(), "k")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3 get k")

	err = b.Put(context.Background(), "k", nil)
	require.ErrorIs(t, err, boom)
}

func TestCalendars_RoundTripThroughBucket(t *testing.T) {
	fake := newFakeS3()
	b := newWithAPI(fake, "crm", "")
	ctx := context.Background()

	created, err := b.Calendars("u1").Create(ctx, models.CalendarRow{Name: "Sales"})
	require.NoError(t, err)
	assert.Contains(t, fake.objects, "crm/calendars/u1.json")

	_, err = b.Calendars("u1").Update(ctx, created.ID, remote.Patch{"is_active": false})
	require.NoError(t, err)

	rows, err := b.Calendars("u1").GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].IsActive)
	assert.False(t, *rows[0].IsActive)

	other, err := b.Calendars("u2").GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestNew_AppliesOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials, "static credentials expected")
		return aws.Config{Region: lo.Region}, nil
	}

	var applied s3.Options
	fake := newFakeS3()
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		for _, fn := range optFns {
			fn(&applied)
		}
		return fake
	}

	b, err := New(context.Background(), Options{
		Bucket: "crm", Region: "eu-west-1", Endpoint: "http://127.0.0.1:9000",
		AccessKey: "minio", SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(applied.BaseEndpoint))
	assert.True(t, applied.UsePathStyle)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.ErrorContains(t, err, "bucket is required")

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = New(context.Background(), Options{Bucket: "crm"})
	require.ErrorContains(t, err, "load aws config")
}
