package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrInvalidBucketURL is returned for a gs:// URL without an object path.
var ErrInvalidBucketURL = errors.New("invalid gs bucket URL")

// credentialOptions returns client options for credentialsURL.
//
// An empty URL selects application default credentials. A URL of the form
// gs://bucket/object reads the JSON key from Cloud Storage; anything else
// is treated as a file path.
func credentialOptions(ctx context.Context, credentialsURL string) ([]option.ClientOption, error) {
	if credentialsURL == "" {
		return nil, nil
	}

	creds, err := readCredentials(ctx, credentialsURL)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
}

func readCredentials(ctx context.Context, credentialsURL string) ([]byte, error) {
	if !strings.HasPrefix(credentialsURL, "gs://") {
		creds, err := os.ReadFile(credentialsURL)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return creds, nil
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(credentialsURL, "gs://"), "/")
	if !ok || bucket == "" || object == "" {
		return nil, ErrInvalidBucketURL
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	creds, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, object, err)
	}
	return creds, nil
}
