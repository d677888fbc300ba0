package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/galileo-map/galileo-vt-styler/internal/colors"
	"github.com/galileo-map/galileo-vt-styler/internal/editor"
)

func TestNewS3Client(t *testing.T) {
	tests := []struct {
		name        string
		bucket      string
		prefix      string
		region      string
		expectError bool
	}{
		{
			name:        "valid configuration",
			bucket:      "map-styles",
			prefix:      "published",
			region:      "eu-west-1",
			expectError: false,
		},
		{
			name:        "empty bucket",
			bucket:      "",
			prefix:      "published",
			region:      "eu-west-1",
			expectError: true,
		},
		{
			name:        "empty prefix is valid",
			bucket:      "map-styles",
			prefix:      "",
			region:      "eu-west-1",
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewS3Client(tt.bucket, tt.prefix, tt.region)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.GetBucket() != tt.bucket {
				t.Errorf("bucket = %v, want %v", client.GetBucket(), tt.bucket)
			}
			if client.GetPrefix() != tt.prefix {
				t.Errorf("prefix = %v, want %v", client.GetPrefix(), tt.prefix)
			}
		})
	}
}

func TestNewS3ClientFromEnv(t *testing.T) {
	// Save original env vars
	origBucket := os.Getenv("S3_BUCKET")
	origPrefix := os.Getenv("S3_PREFIX")
	origRegion := os.Getenv("AWS_REGION")
	origEndpoint := os.Getenv("S3_ENDPOINT")
	defer func() {
		os.Setenv("S3_BUCKET", origBucket)
		os.Setenv("S3_PREFIX", origPrefix)
		os.Setenv("AWS_REGION", origRegion)
		os.Setenv("S3_ENDPOINT", origEndpoint)
	}()

	tests := []struct {
		name        string
		bucket      string
		prefix      string
		region      string
		expectError bool
	}{
		{
			name:        "valid env vars",
			bucket:      "env-bucket",
			prefix:      "env-prefix",
			region:      "us-west-2",
			expectError: false,
		},
		{
			name:        "missing bucket",
			bucket:      "",
			prefix:      "env-prefix",
			region:      "us-west-2",
			expectError: true,
		},
		{
			name:        "default region",
			bucket:      "env-bucket",
			prefix:      "env-prefix",
			region:      "",
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("S3_BUCKET", tt.bucket)
			os.Setenv("S3_PREFIX", tt.prefix)
			os.Setenv("AWS_REGION", tt.region)
			os.Setenv("S3_ENDPOINT", "")

			client, err := NewS3ClientFromEnv()
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.GetBucket() != tt.bucket {
				t.Errorf("bucket = %v, want %v", client.GetBucket(), tt.bucket)
			}
		})
	}
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{
			name:   "with prefix",
			prefix: "published",
			key:    "styles/basic/document.yaml",
			want:   "published/styles/basic/document.yaml",
		},
		{
			name:   "empty prefix",
			prefix: "",
			key:    "styles/basic/document.yaml",
			want:   "styles/basic/document.yaml",
		},
		{
			name:   "key with leading slash",
			prefix: "published",
			key:    "/styles/basic/manifest.json",
			want:   "published/styles/basic/manifest.json",
		},
		{
			name:   "nested prefix",
			prefix: "prod/published",
			key:    "document.yaml",
			want:   "prod/published/document.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &S3Client{
				bucket: "map-styles",
				prefix: tt.prefix,
			}
			got := client.buildKey(tt.key)
			if got != tt.want {
				t.Errorf("buildKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetS3URI(t *testing.T) {
	client := &S3Client{
		bucket: "map-styles",
		prefix: "published",
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "simple key",
			key:  "document.yaml",
			want: "s3://map-styles/published/document.yaml",
		},
		{
			name: "nested key",
			key:  "styles/basic/manifest.json",
			want: "s3://map-styles/published/styles/basic/manifest.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.GetS3URI(tt.key)
			if got != tt.want {
				t.Errorf("GetS3URI() = %v, want %v", got, tt.want)
			}
		})
	}
}

// fakeS3 is an in-memory S3-compatible server covering the operations the
// client issues: PutObject, GetObject, HeadObject and ListObjectsV2, all in
// path-style addressing.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	fake := &fakeS3{objects: make(map[string][]byte)}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakeS3) seed(key string, data []byte) {
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
}

func (f *fakeS3) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2" {
		f.list(w, r)
		return
	}

	// Path-style addressing puts the bucket first: /<bucket>/<key>.
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) < 2 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	key := parts[1]

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[key] = body
	case http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.serveObject(w, r, data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) serveObject(w http.ResponseWriter, r *http.Request, data []byte) {
	rng := r.Header.Get("Range")
	var start, end int
	if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &start, &end); err != nil || start >= len(data) {
		w.Write(data)
		return
	}
	if end >= len(data) {
		end = len(data) - 1
	}
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(data)))
	w.WriteHeader(http.StatusPartialContent)
	w.Write(data[start : end+1])
}

func (f *fakeS3) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString("<ListBucketResult><IsTruncated>false</IsTruncated>")
	fmt.Fprintf(&sb, "<KeyCount>%d</KeyCount>", len(keys))
	for _, key := range keys {
		fmt.Fprintf(&sb, "<Contents><Key>%s</Key></Contents>", key)
	}
	sb.WriteString("</ListBucketResult>")

	w.Header().Set("Content-Type", "application/xml")
	io.WriteString(w, sb.String())
}

func testS3Client(t *testing.T, prefix string) (*fakeS3, *S3Client) {
	fake, server := newFakeS3(t)
	client, err := NewS3ClientWithEndpoint("map-styles", prefix, "eu-west-1", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return fake, client
}

func TestUploadAndDownloadContent(t *testing.T) {
	fake, client := testS3Client(t, "published")

	content := []byte("background: [252, 247, 229, 255]\n")
	if err := client.UploadContent(content, "styles/basic/document.yaml"); err != nil {
		t.Fatalf("UploadContent: %v", err)
	}

	stored, ok := fake.object("published/styles/basic/document.yaml")
	if !ok {
		t.Fatalf("object not stored under the prefixed key")
	}
	if !bytes.Equal(stored, content) {
		t.Errorf("stored content = %q, want %q", stored, content)
	}

	got, err := client.DownloadContent("styles/basic/document.yaml")
	if err != nil {
		t.Fatalf("DownloadContent: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("downloaded content = %q, want %q", got, content)
	}
}

func TestDownloadContentMissingKey(t *testing.T) {
	_, client := testS3Client(t, "")

	if _, err := client.DownloadContent("styles/absent/document.yaml"); err == nil {
		t.Errorf("expected error for missing object")
	}
}

func TestFileExists(t *testing.T) {
	fake, client := testS3Client(t, "published")
	fake.seed("published/styles/basic/document.yaml", []byte("{}"))

	exists, err := client.FileExists("styles/basic/document.yaml")
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if !exists {
		t.Errorf("expected styles/basic/document.yaml to exist")
	}

	exists, err = client.FileExists("styles/night/document.yaml")
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if exists {
		t.Errorf("expected styles/night/document.yaml to be absent")
	}
}

func TestListFiles(t *testing.T) {
	fake, client := testS3Client(t, "published")
	for _, key := range []string{
		"published/styles/basic/document.yaml",
		"published/styles/basic/manifest.json",
		"published/styles/night/document.yaml",
		"published/other/readme.txt",
	} {
		fake.seed(key, []byte("x"))
	}

	files, err := client.ListFiles("styles/")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		"published/styles/basic/document.yaml",
		"published/styles/basic/manifest.json",
		"published/styles/night/document.yaml",
	}
	if len(files) != len(want) {
		t.Fatalf("ListFiles returned %d keys, want %d: %v", len(files), len(want), files)
	}
	for i, key := range want {
		if files[i] != key {
			t.Errorf("files[%d] = %v, want %v", i, files[i], key)
		}
	}
}

func publishedDoc(t *testing.T) *editor.StyleDoc {
	t.Helper()

	doc := editor.NewStyleDoc()
	doc.SetBackground(colors.RGBA(252, 247, 229, 255))
	doc.AddRule()
	rule := doc.Rules()[0]
	rule.LayerName = "water"
	rule.Symbol = editor.SymbolPolygon
	rule.Color = colors.RGBA(170, 187, 204, 255)
	if !doc.SetRule(rule) {
		t.Fatalf("SetRule rejected rule %d", rule.ID)
	}
	return doc
}

func TestPublishAndFetchStyleDoc(t *testing.T) {
	fake, server := newFakeS3(t)
	config := PublishConfig{
		Bucket:     "map-styles",
		Region:     "eu-west-1",
		Endpoint:   server.URL,
		StyleName:  "basic",
		Source:     "https://api.example.com/maps/basic/style.json",
		Stylesheet: []byte(`{"version": 8, "layers": []}`),
	}

	doc := publishedDoc(t)
	if err := PublishStyleDoc(doc, config); err != nil {
		t.Fatalf("PublishStyleDoc: %v", err)
	}

	for _, key := range []string{
		"styles/basic/document.yaml",
		"styles/basic/stylesheet.json",
		"styles/basic/manifest.json",
	} {
		if _, ok := fake.object(key); !ok {
			t.Errorf("missing uploaded object %s", key)
		}
	}

	manifestData, _ := fake.object("styles/basic/manifest.json")
	var manifest StyleManifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		t.Fatalf("unmarshaling manifest: %v", err)
	}
	if manifest.StyleName != "basic" {
		t.Errorf("manifest style name = %v, want basic", manifest.StyleName)
	}
	if manifest.RuleCount != 1 {
		t.Errorf("manifest rule count = %d, want 1", manifest.RuleCount)
	}
	if manifest.Files.Document != "styles/basic/document.yaml" {
		t.Errorf("manifest document key = %v", manifest.Files.Document)
	}

	fetched, err := FetchStyleDoc(config)
	if err != nil {
		t.Fatalf("FetchStyleDoc: %v", err)
	}
	rules := fetched.Rules()
	if len(rules) != 1 || rules[0].LayerName != "water" {
		t.Errorf("fetched rules = %+v, want the single water rule", rules)
	}
	if fetched.Background() != doc.Background() {
		t.Errorf("fetched background = %v, want %v", fetched.Background(), doc.Background())
	}
}

func TestPublishRefusesToOverwrite(t *testing.T) {
	_, server := newFakeS3(t)
	config := PublishConfig{
		Bucket:    "map-styles",
		Region:    "eu-west-1",
		Endpoint:  server.URL,
		StyleName: "basic",
	}

	doc := publishedDoc(t)
	if err := PublishStyleDoc(doc, config); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	err := PublishStyleDoc(doc, config)
	if err == nil {
		t.Fatalf("expected error when republishing %q without overwrite", config.StyleName)
	}
	if !strings.Contains(err.Error(), "already published") {
		t.Errorf("error = %v, want mention of the existing style", err)
	}

	config.Overwrite = true
	if err := PublishStyleDoc(doc, config); err != nil {
		t.Errorf("publish with overwrite: %v", err)
	}
}

func TestListPublishedStyles(t *testing.T) {
	fake, server := newFakeS3(t)
	config := PublishConfig{
		Bucket:   "map-styles",
		Region:   "eu-west-1",
		Endpoint: server.URL,
	}

	doc := publishedDoc(t)
	for _, name := range []string{"night", "basic"} {
		cfg := config
		cfg.StyleName = name
		if err := PublishStyleDoc(doc, cfg); err != nil {
			t.Fatalf("publishing %s: %v", name, err)
		}
	}
	fake.seed("styles/incomplete/document.yaml", []byte("x"))
	fake.seed("unrelated.txt", []byte("x"))

	names, err := ListPublishedStyles(config)
	if err != nil {
		t.Fatalf("ListPublishedStyles: %v", err)
	}
	want := []string{"basic", "night"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %v, want %v", i, names[i], name)
		}
	}
}
