package filestorage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestNewKey(t *testing.T) {
	key := NewKey("/library/", "Handbook.PDF")
	assert.True(t, strings.HasPrefix(key, "library/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Len(t, key, len("library/")+36+len(".pdf"))

	assert.NotContains(t, NewKey("", "x.txt"), "/")
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare key", raw: "policies/a.pdf", want: "policies/a.pdf"},
		{name: "leading slash", raw: "/policies/a.pdf", want: "policies/a.pdf"},
		{name: "uploads prefix", raw: "/uploads/news/b.png", want: "news/b.png"},
		{name: "public url", raw: "https://cdn.inara.org/library/c.docx", want: "library/c.docx"},
		{name: "public url with trailing slash config", raw: "https://cdn.inara.org/x.txt", want: "x.txt"},
		{name: "traversal", raw: "library/../../etc/passwd", wantErr: true},
		{name: "empty", raw: "  /", wantErr: true},
		{name: "double slash", raw: "library//c.docx", wantErr: true},
		{name: "backslash", raw: `library\c.docx`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKey(tt.raw, "", "https://cdn.inara.org/")
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidFileKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	fh := fileHeader(t, "notes.txt", "", []byte("hello staff"))
	saved, err := store.Save(ctx, fh, PrefixLibrary)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(saved.Key, "library/"))
	assert.Equal(t, int64(len("hello staff")), saved.Size)
	assert.Equal(t, "notes.txt", saved.Filename)
	assert.True(t, strings.HasPrefix(saved.ContentType, "text/plain"))
	assert.Equal(t, "http://localhost:8080/uploads/"+saved.Key, saved.URL)

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(saved.Key)))
	require.NoError(t, err)
	assert.Equal(t, "hello staff", string(content))

	url, err := store.PresignGet(ctx, saved.Key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, saved.URL, url)

	require.NoError(t, store.Delete(ctx, saved.URL))
	_, err = store.PresignGet(ctx, saved.Key, time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, saved.Key))
}

func TestLocalStorage_SaveRequiresFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), nil, PrefixGeneral)
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)
	assert.Equal(t, "/uploads/a/b.txt", store.URL("a/b.txt"))
}

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func (m *MockObjectAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

type MockPresignAPI struct {
	mock.Mock
}

func (m *MockPresignAPI) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v4.PresignedHTTPRequest), args.Error(1)
}

func TestR2Storage_Save(t *testing.T) {
	objects := new(MockObjectAPI)
	store := NewR2StorageWithClients("hub", "", objects, new(MockPresignAPI))

	objects.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "hub" && strings.HasPrefix(*in.Key, "policies/") && *in.ContentType == "application/pdf"
	})).Return(&s3.PutObjectOutput{}, nil)

	saved, err := store.Save(context.Background(), fileHeader(t, "code.pdf", "application/pdf", []byte("%PDF-1.7")), PrefixPolicies)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/"+saved.Key, saved.URL)
	objects.AssertExpectations(t)
}

func TestR2Storage_SaveUploadError(t *testing.T) {
	objects := new(MockObjectAPI)
	store := NewR2StorageWithClients("hub", "https://cdn.inara.org", objects, new(MockPresignAPI))
	objects.On("PutObject", mock.Anything, mock.Anything).Return((*s3.PutObjectOutput)(nil), errors.New("boom"))

	_, err := store.Save(context.Background(), fileHeader(t, "a.png", "image/png", []byte{1}), PrefixNews)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestR2Storage_PresignGet(t *testing.T) {
	objects := new(MockObjectAPI)
	presigner := new(MockPresignAPI)
	store := NewR2StorageWithClients("hub", "https://cdn.inara.org", objects, presigner)

	objects.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return *in.Key == "library/a.pdf"
	})).Return(&s3.HeadObjectOutput{}, nil)
	presigner.On("PresignGetObject", mock.Anything, mock.Anything).
		Return(&v4.PresignedHTTPRequest{URL: "https://r2.example/library/a.pdf?X-Amz-Signature=abc"}, nil)

	url, err := store.PresignGet(context.Background(), "library/a.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")
	assert.Equal(t, "https://cdn.inara.org/library/a.pdf", store.URL("library/a.pdf"))
}

func TestR2Storage_PresignMissingObject(t *testing.T) {
	objects := new(MockObjectAPI)
	presigner := new(MockPresignAPI)
	store := NewR2StorageWithClients("hub", "", objects, presigner)

	objects.On("HeadObject", mock.Anything, mock.Anything).Return((*s3.HeadObjectOutput)(nil), &types.NotFound{})

	_, err := store.PresignGet(context.Background(), "library/missing.pdf", time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	presigner.AssertNotCalled(t, "PresignGetObject", mock.Anything, mock.Anything)
}

func TestR2Storage_Delete(t *testing.T) {
	objects := new(MockObjectAPI)
	store := NewR2StorageWithClients("hub", "https://cdn.inara.org", objects, new(MockPresignAPI))

	objects.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "news/x.png"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	require.NoError(t, store.Delete(context.Background(), "https://cdn.inara.org/news/x.png"))
	assert.NoError(t, store.Delete(context.Background(), ""))
	objects.AssertNumberOfCalls(t, "DeleteObject", 1)
}
