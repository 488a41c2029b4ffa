package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putErr  error
	keys    []string
	bodies  [][]byte
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.keys = append(f.keys, aws.ToString(in.Key))
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + aws.ToString(in.Key) + "?sig=1"}, nil
}

func newTestS3(client s3API) *S3Storage {
	return &S3Storage{
		client:    client,
		presigner: fakePresigner{},
		bucket:    "fieldops",
		folder:    "reports",
		baseURL:   objectBaseURL(&infraconfig.StorageConfig{Bucket: "fieldops", Region: "eu-west-1"}),
	}
}

func TestObjectBaseURL(t *testing.T) {
	assert.Equal(t, "https://fieldops.s3.eu-west-1.amazonaws.com",
		objectBaseURL(&infraconfig.StorageConfig{Bucket: "fieldops", Region: "eu-west-1"}))
	assert.Equal(t, "http://minio:9000/fieldops",
		objectBaseURL(&infraconfig.StorageConfig{Bucket: "fieldops", Endpoint: "http://minio:9000/"}))
}

func TestReportStore_PutToS3(t *testing.T) {
	client := &fakeS3{}
	store := NewReportStore(newTestS3(client), NewLocalStorage(t.TempDir(), "/temp"), nil)

	location, err := store.Put(context.Background(), "UNP_MONTHLY.xlsx", []byte("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "https://fieldops.s3.eu-west-1.amazonaws.com/reports/UNP_MONTHLY.xlsx", location)
	assert.Equal(t, []string{"reports/UNP_MONTHLY.xlsx"}, client.keys)
	assert.Equal(t, []byte("xlsx"), client.bodies[0])

	link, err := store.Link(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/reports/UNP_MONTHLY.xlsx?sig=1", link)

	require.NoError(t, store.Delete(context.Background(), location))
	assert.Equal(t, []string{"reports/UNP_MONTHLY.xlsx"}, client.deleted)
}

func TestReportStore_FallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore(newTestS3(&fakeS3{putErr: errors.New("access denied")}), NewLocalStorage(dir, "temp"), nil)

	location, err := store.Put(context.Background(), "BP_DAILY.xlsx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/temp/BP_DAILY.xlsx", location)

	p, err := store.Path(location)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "BP_DAILY.xlsx"), p)
	content, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	link, err := store.Link(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, location, link, "local locations are served directly")

	require.NoError(t, store.Delete(context.Background(), location))
	assert.NoFileExists(t, p)
}

func TestReportStore_WithoutS3(t *testing.T) {
	store := NewReportStore(nil, NewLocalStorage(t.TempDir(), "/temp"), nil)

	location, err := store.Put(context.Background(), "FA_YEARLY.xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, "/temp/FA_YEARLY.xlsx", location)
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere.example/x.xlsx"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	l := NewLocalStorage(t.TempDir(), "/temp")

	_, err := l.Put("../escape.xlsx", nil)
	assert.Error(t, err)

	_, err = l.Path("/temp/../etc/passwd")
	assert.ErrorIs(t, err, ErrNotLocal)

	_, err = l.Path("/other/file.xlsx")
	assert.ErrorIs(t, err, ErrNotLocal)
}
