package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/galileo-map/galileo-vt-styler/internal/editor"
)

// PublishConfig contains configuration for publishing a style document
type PublishConfig struct {
	Bucket     string
	Prefix     string
	Region     string
	Endpoint   string // S3-compatible endpoint, empty for AWS
	StyleName  string
	Source     string // path or URL the stylesheet was imported from
	Stylesheet []byte // original stylesheet JSON, uploaded alongside when set
	Overwrite  bool   // replace an already published style of the same name
}

// StyleManifest contains metadata about a published style
type StyleManifest struct {
	Timestamp  string `json:"timestamp"`
	StyleName  string `json:"style_name"`
	Source     string `json:"source,omitempty"`
	RuleCount  int    `json:"rule_count"`
	Background string `json:"background"`
	Files      struct {
		Document   string `json:"document"`
		Stylesheet string `json:"stylesheet,omitempty"`
		Manifest   string `json:"manifest"`
	} `json:"files"`
}

// PublishStyleDoc uploads a style document to S3 with a manifest
func PublishStyleDoc(doc *editor.StyleDoc, config PublishConfig) error {
	s3Client, err := NewS3ClientWithEndpoint(config.Bucket, config.Prefix, config.Region, config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	styleName := config.StyleName
	if styleName == "" {
		styleName = fmt.Sprintf("style_%s", time.Now().Format("20060102_150405"))
	}
	s3Prefix := fmt.Sprintf("styles/%s", styleName)

	if config.StyleName != "" && !config.Overwrite {
		exists, err := s3Client.FileExists(fmt.Sprintf("%s/document.yaml", s3Prefix))
		if err != nil {
			return fmt.Errorf("failed to check for existing style: %w", err)
		}
		if exists {
			return fmt.Errorf("style %q is already published at %s", styleName, s3Client.GetS3URI(s3Prefix))
		}
	}

	manifest := StyleManifest{
		Timestamp:  time.Now().Format(time.RFC3339),
		StyleName:  styleName,
		Source:     config.Source,
		RuleCount:  len(doc.Rules()),
		Background: doc.Background().String(),
	}

	document, err := editor.Encode(doc)
	if err != nil {
		return err
	}
	documentKey := fmt.Sprintf("%s/document.yaml", s3Prefix)
	if err := s3Client.UploadContent(document, documentKey); err != nil {
		return fmt.Errorf("failed to upload style document: %w", err)
	}
	manifest.Files.Document = documentKey
	fmt.Printf("Uploaded style document to %s\n", s3Client.GetS3URI(documentKey))

	if len(config.Stylesheet) > 0 {
		stylesheetKey := fmt.Sprintf("%s/stylesheet.json", s3Prefix)
		if err := s3Client.UploadContent(config.Stylesheet, stylesheetKey); err != nil {
			return fmt.Errorf("failed to upload source stylesheet: %w", err)
		}
		manifest.Files.Stylesheet = stylesheetKey
		fmt.Printf("Uploaded source stylesheet to %s\n", s3Client.GetS3URI(stylesheetKey))
	}

	manifestKey := fmt.Sprintf("%s/manifest.json", s3Prefix)
	manifest.Files.Manifest = manifestKey
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := s3Client.UploadContent(manifestData, manifestKey); err != nil {
		return fmt.Errorf("failed to upload manifest: %w", err)
	}
	fmt.Printf("Uploaded manifest to %s\n", s3Client.GetS3URI(manifestKey))

	fmt.Printf("\nStyle Package: s3://%s/%s/\n", config.Bucket, s3Prefix)
	fmt.Printf("   Name: %s\n", styleName)
	fmt.Printf("   Rules: %d\n", manifest.RuleCount)
	fmt.Printf("   Timestamp: %s\n", manifest.Timestamp)

	return nil
}

// FetchStyleDoc downloads a previously published style document
func FetchStyleDoc(config PublishConfig) (*editor.StyleDoc, error) {
	s3Client, err := NewS3ClientWithEndpoint(config.Bucket, config.Prefix, config.Region, config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	documentKey := fmt.Sprintf("styles/%s/document.yaml", config.StyleName)
	data, err := s3Client.DownloadContent(documentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download style document: %w", err)
	}

	return editor.Decode(data)
}

// ListPublishedStyles returns the names of styles published to the bucket,
// sorted alphabetically. A style counts as published once its manifest exists.
func ListPublishedStyles(config PublishConfig) ([]string, error) {
	s3Client, err := NewS3ClientWithEndpoint(config.Bucket, config.Prefix, config.Region, config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	keys, err := s3Client.ListFiles("styles/")
	if err != nil {
		return nil, fmt.Errorf("failed to list published styles: %w", err)
	}

	marker := "styles/"
	var names []string
	for _, key := range keys {
		if !strings.HasSuffix(key, "/manifest.json") {
			continue
		}
		trimmed := strings.TrimSuffix(key, "/manifest.json")
		idx := strings.LastIndex(trimmed, marker)
		if idx < 0 {
			continue
		}
		names = append(names, trimmed[idx+len(marker):])
	}
	sort.Strings(names)

	return names, nil
}
