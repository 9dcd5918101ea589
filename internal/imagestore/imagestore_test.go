package imagestore

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testDataURL(contentType string, payload []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestIsDataURL(t *testing.T) {
	if !IsDataURL("data:image/png;base64,AAAA") {
		t.Error("data URL should be recognized")
	}
	if IsDataURL("https://img.example.com/a.png") {
		t.Error("plain URL should not be recognized")
	}
	if IsDataURL("") {
		t.Error("empty string should not be recognized")
	}
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	st := &Store{
		cfg:    Config{Bucket: "images", PublicURL: "https://cdn.platefront.test/"},
		client: fake,
	}

	payload := []byte("fake png bytes")
	url, err := st.Upload(context.Background(), "menu", testDataURL("image/png", payload))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.platefront.test/menu/") {
		t.Errorf("url = %q, want cdn prefix with menu/ key", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png extension", url)
	}

	if fake.lastInput == nil {
		t.Fatal("expected a PutObject call")
	}
	if *fake.lastInput.Bucket != "images" {
		t.Errorf("bucket = %q", *fake.lastInput.Bucket)
	}
	if *fake.lastInput.ContentType != "image/png" {
		t.Errorf("content type = %q", *fake.lastInput.ContentType)
	}
	body, err := io.ReadAll(fake.lastInput.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != string(payload) {
		t.Error("uploaded bytes should match the decoded payload")
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	st := &Store{cfg: Config{Bucket: "images"}, client: &fakeS3{}}

	cases := []struct {
		name    string
		dataURL string
	}{
		{"not a data url", "https://img.example.com/a.png"},
		{"unsupported type", testDataURL("image/tiff", []byte("x"))},
		{"not base64 encoded", "data:image/png;charset=utf8,xxxx"},
		{"bad base64", "data:image/png;base64,$$$$"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := st.Upload(context.Background(), "menu", tc.dataURL); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestUploadUnconfigured(t *testing.T) {
	st := New(Config{})
	if st.Configured() {
		t.Error("empty config should report unconfigured")
	}
	if _, err := st.Upload(context.Background(), "menu", testDataURL("image/png", []byte("x"))); err == nil {
		t.Error("expected error from unconfigured store, got nil")
	}
}
