package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseClients are the Admin SDK clients used by the server
type FirebaseClients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitFirebase initializes the Firebase Admin SDK from a service account file.
// projectID may be empty when the credentials carry it.
func InitFirebase(ctx context.Context, credPath, projectID string) (*FirebaseClients, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}

	return &FirebaseClients{Auth: authClient, Firestore: fs}, nil
}
