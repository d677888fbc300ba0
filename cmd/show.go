package cmd

import (
	"fmt"
	"os"

	"github.com/galileo-map/galileo-vt-styler/internal/editor"
	"github.com/galileo-map/galileo-vt-styler/internal/formatters"
	"github.com/galileo-map/galileo-vt-styler/internal/storage"

	"github.com/spf13/cobra"
)

var (
	showFormat     string
	showS3Style    string
	showS3List     bool
	showS3Bucket   string
	showS3Prefix   string
	showS3Region   string
	showS3Endpoint string
)

var showCmd = &cobra.Command{
	Use:   "show [document.yaml]",
	Short: "Render a saved style document",
	Long: `Render a saved style document as a human-readable report or as JSON.

The document comes from a local file (default style.yaml) or, with
--s3-style, from a style previously published to S3. --s3-list prints
the names of all published styles instead.

Examples:
  vt-styler show basic.yaml
  vt-styler show basic.yaml --format json

  # Fetch a published style
  export S3_BUCKET="map-styles"
  vt-styler show --s3-style basic

  # List published styles
  vt-styler show --s3-list`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runShow(args)
	},
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format: text or json")
	showCmd.Flags().StringVar(&showS3Style, "s3-style", "", "Name of a published style to fetch from S3")
	showCmd.Flags().BoolVar(&showS3List, "s3-list", false, "List styles published to S3")
	showCmd.Flags().StringVar(&showS3Bucket, "s3-bucket", "", "S3 bucket name (or use S3_BUCKET env var)")
	showCmd.Flags().StringVar(&showS3Prefix, "s3-prefix", "", "S3 key prefix (or use S3_PREFIX env var)")
	showCmd.Flags().StringVar(&showS3Region, "s3-region", "eu-west-1", "AWS region (or use AWS_REGION env var)")
	showCmd.Flags().StringVar(&showS3Endpoint, "s3-endpoint", "", "S3-compatible endpoint such as MinIO (or use S3_ENDPOINT env var)")
}

func runShow(args []string) {
	if showS3List {
		names, err := storage.ListPublishedStyles(showS3Config(""))
		if err != nil {
			fmt.Printf("ERROR: %v\n", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Println("No published styles found")
			return
		}
		fmt.Printf("Published styles (%d):\n", len(names))
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return
	}

	doc, err := loadShownDocument(args)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	switch showFormat {
	case "text":
		fmt.Print(formatters.Text(doc))
	case "json":
		output, err := formatters.JSON(doc)
		if err != nil {
			fmt.Printf("ERROR: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
	default:
		fmt.Printf("ERROR: unknown format %q (want text or json)\n", showFormat)
		os.Exit(1)
	}
}

func loadShownDocument(args []string) (*editor.StyleDoc, error) {
	if showS3Style != "" {
		return storage.FetchStyleDoc(showS3Config(showS3Style))
	}

	path := "style.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	return editor.Load(path)
}

// showS3Config merges the S3 flags with their environment fallbacks.
func showS3Config(styleName string) storage.PublishConfig {
	bucket := showS3Bucket
	if bucket == "" {
		bucket = os.Getenv("S3_BUCKET")
	}
	prefix := showS3Prefix
	if prefix == "" {
		prefix = os.Getenv("S3_PREFIX")
	}
	region := showS3Region
	if envRegion := os.Getenv("AWS_REGION"); envRegion != "" {
		region = envRegion
	}
	endpoint := showS3Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("S3_ENDPOINT")
	}

	return storage.PublishConfig{
		Bucket:    bucket,
		Prefix:    prefix,
		Region:    region,
		Endpoint:  endpoint,
		StyleName: styleName,
	}
}
