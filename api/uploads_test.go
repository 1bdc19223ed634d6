package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"task-gateway/domain"
)

func TestUploadBase64MissingImage(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/api/upload/base64", `{"taskId":"t1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if len(f.images.uploads) != 0 {
		t.Fatalf("storage must not be called, got %d uploads", len(f.images.uploads))
	}
}

func TestUploadBase64StripsDataURL(t *testing.T) {
	f := newFixture()
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'g'}
	body := `{"image":"data:image/jpeg;base64,` + base64.StdEncoding.EncodeToString(raw) + `","taskId":"t1"}`

	rec := f.do(http.MethodPost, "/api/upload/base64", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.images.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(f.images.uploads))
	}
	up := f.images.uploads[0]
	if !bytes.Equal(up.data, raw) {
		t.Fatalf("unexpected uploaded bytes: %v", up.data)
	}
	if up.contentType != "image/jpeg" {
		t.Fatalf("unexpected content type: %q", up.contentType)
	}
	if !strings.HasPrefix(up.key, "tasks/t1_") || !strings.HasSuffix(up.key, ".jpg") {
		t.Fatalf("unexpected key: %q", up.key)
	}

	var resp uploadResponse
	decodeBody(t, rec.Body.Bytes(), &resp)
	if !resp.Success || resp.ImageKey != up.key || resp.Bucket != "shopping-images" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ImageURL != "http://blobs.local/shopping-images/"+up.key {
		t.Fatalf("unexpected url: %q", resp.ImageURL)
	}
}

func TestUploadBase64InvalidEncoding(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/api/upload/base64", `{"image":"%%%not-base64"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if len(f.images.uploads) != 0 {
		t.Fatalf("storage must not be called")
	}
}

func TestUploadBase64StorageFailure(t *testing.T) {
	f := newFixture()
	f.images.uploadErr = errors.New("container missing")
	rec := f.do(http.MethodPost, "/api/upload/base64", `{"image":"aGVsbG8="}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec.Body.Bytes(), &resp)
	if resp.Error != "container missing" {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func multipartRequest(t *testing.T, fieldName string, data []byte, contentType, taskID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if taskID != "" {
		if err := w.WriteField("taskId", taskID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fieldName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="photo.png"`)
		h.Set(echo.HeaderContentType, contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload/multipart", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadMultipart(t *testing.T) {
	f := newFixture()
	data := []byte("png-bytes")
	rec := f.doRequest(multipartRequest(t, "image", data, "image/png", "t7"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.images.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(f.images.uploads))
	}
	up := f.images.uploads[0]
	if string(up.data) != "png-bytes" || up.contentType != "image/png" {
		t.Fatalf("unexpected upload: %+v", up)
	}
	if !strings.HasPrefix(up.key, "tasks/t7_") {
		t.Fatalf("unexpected key: %q", up.key)
	}
}

func TestUploadMultipartMissingFile(t *testing.T) {
	f := newFixture()
	rec := f.doRequest(multipartRequest(t, "", nil, "", "t7"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if len(f.images.uploads) != 0 {
		t.Fatalf("storage must not be called")
	}
}

func TestUploadMultipartTooLarge(t *testing.T) {
	f := newFixture()
	data := bytes.Repeat([]byte{'x'}, maxUploadFileSize+1)
	rec := f.doRequest(multipartRequest(t, "image", data, "image/jpeg", ""))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413 got %d", rec.Code)
	}
}

func TestImageKey(t *testing.T) {
	now := time.UnixMilli(1714564800123)
	if got := imageKey("t1", now); got != "tasks/t1_1714564800123.jpg" {
		t.Fatalf("unexpected key: %q", got)
	}
	generated := imageKey("", now)
	if !strings.HasPrefix(generated, "tasks/") || !strings.HasSuffix(generated, "_1714564800123.jpg") || len(generated) <= len("tasks/_1714564800123.jpg") {
		t.Fatalf("unexpected generated key: %q", generated)
	}
}

func TestListImages(t *testing.T) {
	f := newFixture()
	f.images.images = []domain.Image{{Key: "tasks/a.jpg", Size: 3, URL: "http://blobs.local/a"}}
	rec := f.do(http.MethodGet, "/api/images", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if f.images.prefix != "tasks/" {
		t.Fatalf("unexpected prefix: %q", f.images.prefix)
	}
	var resp imagesResponse
	decodeBody(t, rec.Body.Bytes(), &resp)
	if !resp.Success || resp.Count != 1 || resp.Images[0].Key != "tasks/a.jpg" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListImagesBackendError(t *testing.T) {
	f := newFixture()
	f.images.listErr = errors.New("denied")
	if rec := f.do(http.MethodGet, "/api/images", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
}
