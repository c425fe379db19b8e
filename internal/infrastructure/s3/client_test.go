package s3infra

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-api-employees/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
	getErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type statusErr struct{ code int }

func (e statusErr) Error() string       { return "http error" }
func (e statusErr) HTTPStatusCode() int { return e.code }

func TestStore_UploadDownloadDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewStore(fake, "bucket", "https://cdn.example.com/")

	url, err := store.Upload(context.Background(), "uploads/a.csv", bytes.NewBufferString("a,b"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/a.csv", url)

	rc, err := store.Download(context.Background(), "uploads/a.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "a,b", string(data))

	require.NoError(t, store.Delete(context.Background(), "uploads/a.csv"))
	_, err = store.Download(context.Background(), "uploads/a.csv")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_URL_FallsBackToS3Scheme(t *testing.T) {
	store := NewStore(&fakeS3{}, "bucket", "")
	assert.Equal(t, "s3://bucket/k", store.URL("k"))
}

func TestStore_Download_HTTP404IsNotFound(t *testing.T) {
	store := NewStore(&fakeS3{getErr: statusErr{code: 404}}, "bucket", "")
	_, err := store.Download(context.Background(), "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Download_OtherErrorsPropagate(t *testing.T) {
	store := NewStore(&fakeS3{getErr: statusErr{code: 500}}, "bucket", "")
	_, err := store.Download(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Upload_WrapsError(t *testing.T) {
	store := NewStore(&fakeS3{putErr: errors.New("access denied")}, "bucket", "")
	_, err := store.Upload(context.Background(), "k", bytes.NewBufferString("x"), "text/plain")
	assert.ErrorContains(t, err, "s3 put object: access denied")
}
