package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"listinghub-go/internal/config"
)

// Clients bundles the Firebase Admin SDK handles the application uses.
// It is constructed once at startup and passed explicitly to whatever needs
// it; there is no package-level instance.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
	Bucket    *gcs.BucketHandle
}

// InitFirebase initializes the Firebase Admin SDK and returns the Firestore,
// Auth and Storage clients. Credentials are resolved in order: explicit
// credentials file, base64-encoded service account JSON, then Application
// Default Credentials.
func InitFirebase(ctx context.Context, cfg *config.Config) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("InitFirebase: cfg cannot be nil")
	}

	opts := []option.ClientOption{}
	switch {
	case cfg.GoogleApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		// Application Default Credentials (GCE, Cloud Run, gcloud auth).
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseStorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("failed to initialize Firebase Auth client: %w", err)
	}

	// The bucket is optional; callers that never touch storage can run
	// without FIREBASE_STORAGE_BUCKET set.
	var bucket *gcs.BucketHandle
	if cfg.FirebaseStorageBucket != "" {
		storageClient, err := app.Storage(ctx)
		if err != nil {
			fsClient.Close()
			return nil, fmt.Errorf("failed to initialize Firebase Storage client: %w", err)
		}
		bucket, err = storageClient.DefaultBucket()
		if err != nil {
			fsClient.Close()
			return nil, fmt.Errorf("failed to get default storage bucket: %w", err)
		}
	}

	return &Clients{Firestore: fsClient, Auth: authClient, Bucket: bucket}, nil
}

// Close releases the underlying Firestore connection.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
