package cmd

import (
	"fmt"
	"os"

	"github.com/galileo-map/galileo-vt-styler/assets"
	"github.com/galileo-map/galileo-vt-styler/internal/editor"
	"github.com/galileo-map/galileo-vt-styler/internal/ess"
	"github.com/galileo-map/galileo-vt-styler/internal/fetch"
	"github.com/galileo-map/galileo-vt-styler/internal/formatters"
	"github.com/galileo-map/galileo-vt-styler/internal/storage"
	"github.com/galileo-map/galileo-vt-styler/internal/translate"

	"github.com/spf13/cobra"
)

var (
	importOutput      string
	importDemo        bool
	importName        string
	importRetryCount  int
	importS3Upload    bool
	importS3Overwrite bool
	importS3Bucket    string
	importS3Prefix    string
	importS3Region    string
	importS3Endpoint  string
)

var importCmd = &cobra.Command{
	Use:   "import [path|url]",
	Short: "Translate a v8 stylesheet into a style document",
	Long: `Translate a MapLibre-style v8 stylesheet into the renderer's rule-based
style document.

The stylesheet may be a local file, an http(s) URL, or the bundled demo
(--demo). Expression-valued paint and layout properties are degraded to
constants; layers the rule model cannot represent are skipped with a
diagnostic.

Examples:
  # Translate the bundled demo stylesheet
  vt-styler import --demo -o demo.yaml

  # Translate a hosted stylesheet
  vt-styler import https://api.example.com/maps/basic/style.json -o basic.yaml

  # Translate and publish to S3
  export S3_BUCKET="map-styles"
  vt-styler import basic.json --s3-upload --name basic`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runImport(args)
	},
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "style.yaml", "Output file for the style document")
	importCmd.Flags().BoolVar(&importDemo, "demo", false, "Translate the bundled demo stylesheet")
	importCmd.Flags().StringVar(&importName, "name", "", "Style name used for publishing (defaults to the stylesheet id)")
	importCmd.Flags().IntVar(&importRetryCount, "retry-failures-count", 2, "Number of retry attempts for failed downloads due to transient network issues")
	importCmd.Flags().BoolVar(&importS3Upload, "s3-upload", false, "Publish the style document to S3")
	importCmd.Flags().BoolVar(&importS3Overwrite, "s3-overwrite", false, "Replace an already published style of the same name")
	importCmd.Flags().StringVar(&importS3Bucket, "s3-bucket", "", "S3 bucket name (or use S3_BUCKET env var)")
	importCmd.Flags().StringVar(&importS3Prefix, "s3-prefix", "", "S3 key prefix (or use S3_PREFIX env var)")
	importCmd.Flags().StringVar(&importS3Region, "s3-region", "eu-west-1", "AWS region (or use AWS_REGION env var)")
	importCmd.Flags().StringVar(&importS3Endpoint, "s3-endpoint", "", "S3-compatible endpoint such as MinIO (or use S3_ENDPOINT env var)")
}

func runImport(args []string) {
	source, data, err := readStylesheet(args)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	sheet, err := ess.Parse(data)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	doc := editor.NewStyleDoc()
	doc.LoadStyle(translate.Translate(sheet))

	fmt.Print(formatters.Text(doc))

	if err := editor.Save(doc, importOutput); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSaved style document to %s\n", importOutput)

	if importS3Upload {
		fmt.Println("\nPublishing style to S3...")

		bucket := importS3Bucket
		if bucket == "" {
			bucket = os.Getenv("S3_BUCKET")
		}
		prefix := importS3Prefix
		if prefix == "" {
			prefix = os.Getenv("S3_PREFIX")
		}
		region := importS3Region
		if envRegion := os.Getenv("AWS_REGION"); envRegion != "" {
			region = envRegion
		}
		endpoint := importS3Endpoint
		if endpoint == "" {
			endpoint = os.Getenv("S3_ENDPOINT")
		}

		name := importName
		if name == "" {
			name = sheet.ID
		}

		err := storage.PublishStyleDoc(doc, storage.PublishConfig{
			Bucket:     bucket,
			Prefix:     prefix,
			Region:     region,
			Endpoint:   endpoint,
			StyleName:  name,
			Source:     source,
			Stylesheet: data,
			Overwrite:  importS3Overwrite,
		})
		if err != nil {
			fmt.Printf("ERROR: Failed to publish to S3: %v\n", err)
			os.Exit(1)
		}
	}
}

// readStylesheet resolves the import source to raw stylesheet bytes.
func readStylesheet(args []string) (string, []byte, error) {
	if importDemo {
		return "demo", assets.DemoStylesheet, nil
	}
	if len(args) == 0 {
		return "", nil, fmt.Errorf("a stylesheet path or URL is required (or pass --demo)")
	}

	source := args[0]
	if fetch.IsURL(source) {
		client := fetch.NewClient()
		client.SetRetryCount(importRetryCount)
		data, err := client.Download(source)
		return source, data, err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return source, nil, fmt.Errorf("reading stylesheet %s: %w", source, err)
	}
	return source, data, nil
}
