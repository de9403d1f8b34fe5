package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/outagetracker/internal/model"
)

var errNoSuchKey = minioLib.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	objects map[string]string

	putErr    error
	getErr    error
	readErr   error
	removeErr error
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{bucketExists: true, objects: map[string]string{}}
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, name string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = name
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, name string, r io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.objects[name] = string(data)
	return minioLib.UploadInfo{Key: name, Size: int64(len(data))}, nil
}
func (f *fakeMinio) GetObject(_ context.Context, _ string, name string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.readErr != nil {
		return io.NopCloser(errReader{f.readErr}), nil
	}
	v, ok := f.objects[name]
	if !ok {
		return io.NopCloser(errReader{errNoSuchKey}), nil
	}
	return io.NopCloser(strings.NewReader(v)), nil
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, name string, _ minioLib.RemoveObjectOptions) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, name)
	return nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestNewStoreWithAPI_BucketExists(t *testing.T) {
	api := newFakeMinio()
	s, err := NewStoreWithAPI(context.Background(), api, "state", "")
	require.NoError(t, err)
	assert.Equal(t, "state", s.bucket)
	assert.Empty(t, api.madeBucket)
}

func TestNewStoreWithAPI_CreatesBucket(t *testing.T) {
	api := newFakeMinio()
	api.bucketExists = false

	_, err := NewStoreWithAPI(context.Background(), api, "state", "")
	require.NoError(t, err)
	assert.Equal(t, "state", api.madeBucket)
}

func TestNewStoreWithAPI_Errors(t *testing.T) {
	api := newFakeMinio()
	api.bucketExistsErr = errors.New("unreachable")
	_, err := NewStoreWithAPI(context.Background(), api, "state", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket existence")

	api = newFakeMinio()
	api.bucketExists = false
	api.makeBucketErr = errors.New("denied")
	_, err = NewStoreWithAPI(context.Background(), api, "state", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeMinio()
	s, err := NewStoreWithAPI(ctx, api, "state", "device-1/")
	require.NoError(t, err)

	_, err = s.Get(ctx, model.KeyAuthToken)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Set(ctx, model.KeyAuthToken, "tok"))
	assert.Equal(t, "tok", api.objects["device-1/"+model.KeyAuthToken])

	got, err := s.Get(ctx, model.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, s.Delete(ctx, model.KeyAuthToken))
	_, err = s.Get(ctx, model.KeyAuthToken)
	require.ErrorIs(t, err, model.ErrNotFound)

	assert.NoError(t, s.Close())
}

func TestStore_Get_Errors(t *testing.T) {
	ctx := context.Background()

	api := newFakeMinio()
	api.getErr = errNoSuchKey
	s, err := NewStoreWithAPI(ctx, api, "state", "")
	require.NoError(t, err)
	_, err = s.Get(ctx, model.KeyUserData)
	assert.ErrorIs(t, err, model.ErrNotFound)

	api.getErr = errors.New("timeout")
	_, err = s.Get(ctx, model.KeyUserData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get object")

	api.getErr = nil
	api.readErr = errors.New("connection reset")
	_, err = s.Get(ctx, model.KeyUserData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read object")
}

func TestStore_Set_Error(t *testing.T) {
	api := newFakeMinio()
	api.putErr = errors.New("quota exceeded")
	s, err := NewStoreWithAPI(context.Background(), api, "state", "")
	require.NoError(t, err)

	err = s.Set(context.Background(), model.KeyOnboardingCompleted, "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestStore_Delete_Errors(t *testing.T) {
	api := newFakeMinio()
	s, err := NewStoreWithAPI(context.Background(), api, "state", "")
	require.NoError(t, err)

	api.removeErr = errNoSuchKey
	assert.NoError(t, s.Delete(context.Background(), model.KeyUserData))

	api.removeErr = errors.New("denied")
	err = s.Delete(context.Background(), model.KeyUserData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}
