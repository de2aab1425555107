package s3blob

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	putErr    error
	deleteErr error

	lastPut    *s3.PutObjectInput
	putBody    []byte
	lastDelete *s3.DeleteObjectInput
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = in
	f.putBody, _ = io.ReadAll(in.Body)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.lastDelete = in
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresign struct {
	err     error
	expires time.Duration
	key     string
}

func (f *fakePresign) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://s3.example/" + aws.ToString(in.Bucket) + "/" + f.key + "?X-Amz-Signature=sig"}, nil
}

func TestPut_UploadsAndPresigns(t *testing.T) {
	objs := &fakeObjects{}
	ps := &fakePresign{}
	s := newStore(objs, ps, Config{Bucket: "media", PresignExpiry: time.Hour})

	u, err := s.Put(context.Background(), "meetups/k1.png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "media", aws.ToString(objs.lastPut.Bucket))
	assert.Equal(t, "meetups/k1.png", aws.ToString(objs.lastPut.Key))
	assert.Equal(t, "image/png", aws.ToString(objs.lastPut.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(objs.lastPut.ContentLength))
	assert.Equal(t, []byte("png-bytes"), objs.putBody)

	assert.Equal(t, "https://s3.example/media/meetups/k1.png?X-Amz-Signature=sig", u)
	assert.Equal(t, time.Hour, ps.expires)
}

func TestPut_PublicBaseURL(t *testing.T) {
	ps := &fakePresign{}
	s := newStore(&fakeObjects{}, ps, Config{Bucket: "media", PublicBaseURL: "https://cdn.example/media/"})

	u, err := s.Put(context.Background(), "meetups/k 1.jpg", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/media/meetups/k%201.jpg", u)
	assert.Empty(t, ps.key, "presign must not be used")
}

func TestPut_Errors(t *testing.T) {
	boom := errors.New("boom")

	s := newStore(&fakeObjects{putErr: boom}, &fakePresign{}, Config{Bucket: "b"})
	_, err := s.Put(context.Background(), "p.png", nil)
	require.ErrorIs(t, err, boom)

	s = newStore(&fakeObjects{}, &fakePresign{err: boom}, Config{Bucket: "b"})
	_, err = s.Put(context.Background(), "p.png", nil)
	require.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	objs := &fakeObjects{}
	s := newStore(objs, &fakePresign{}, Config{Bucket: "media"})

	require.NoError(t, s.Delete(context.Background(), "meetups/k1.png"))
	assert.Equal(t, "meetups/k1.png", aws.ToString(objs.lastDelete.Key))

	objs.deleteErr = errors.New("denied")
	require.ErrorIs(t, s.Delete(context.Background(), "meetups/k1.png"), objs.deleteErr)
}

func TestNewStore_DefaultExpiry(t *testing.T) {
	s := newStore(&fakeObjects{}, &fakePresign{}, Config{Bucket: "b"})
	assert.Equal(t, 7*24*time.Hour, s.cfg.PresignExpiry)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("a/b.jpg"))
	assert.Equal(t, "application/octet-stream", ContentType("a/b"))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestNew_LoadConfigErrorPropagates(t *testing.T) {
	old := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = old })

	boom := errors.New("no config")
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, boom
	}

	_, err := New(context.Background(), Config{Bucket: "b", Region: "us-east-1"})
	require.ErrorIs(t, err, boom)
}

func TestNew_BuildsClientWithEndpoint(t *testing.T) {
	oldLoad, oldNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = oldLoad
		newS3ClientFromConfig = oldNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	s, err := New(context.Background(), Config{
		Bucket:       "media",
		Region:       "eu-central-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		AccessKey:    "admin",
		SecretKey:    "secret",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}
