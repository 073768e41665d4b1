package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"carbazaar/pkg/config"
	"carbazaar/pkg/logger"
)

// Clients holds the Google clients built from one set of credentials.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
	Options   []option.ClientOption
}

// CredentialOptions picks the service account from inline JSON first, then
// from a file path. With neither, application default credentials are used.
func CredentialOptions(cfg *config.Config) ([]option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}, nil
	}

	if cfg.FirebaseServiceAccountPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
			return nil, fmt.Errorf("service account file %s: %w", cfg.FirebaseServiceAccountPath, err)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}, nil
	}

	logger.Info("Using application default credentials")
	return nil, nil
}

// NewClients connects to Firestore and, when withAuth is set, Firebase Auth.
func NewClients(ctx context.Context, cfg *config.Config, withAuth bool) (*Clients, error) {
	opts, err := CredentialOptions(cfg)
	if err != nil {
		return nil, err
	}

	fs, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	clients := &Clients{Firestore: fs, Options: opts}
	if !withAuth {
		return clients, nil
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	clients.Auth, err = app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}
	return clients, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
