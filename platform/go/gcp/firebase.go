package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseConfig selects the Firebase project and, outside GCP, the service account file.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// GetApp Creates a Firebase App instance.
func GetApp(ctx context.Context, cfg FirebaseConfig) (*firebase.App, error) {
	var conf *firebase.Config
	if cfg.ProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	return firebase.NewApp(ctx, conf, opts...)
}

// InitFirebaseAuth initializes the Firebase App and returns an Auth client.
func InitFirebaseAuth(ctx context.Context, cfg FirebaseConfig) (*firebase.App, *firebaseauth.Client, error) {
	firebaseApp, err := GetApp(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase auth [%w]", err)
	}

	return firebaseApp, fbAuth, nil
}

// InitFirestore initializes the Firebase App and returns its Firestore client. Callers own Close.
func InitFirestore(ctx context.Context, cfg FirebaseConfig) (*firebase.App, *firestore.Client, error) {
	firebaseApp, err := GetApp(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	client, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firestore [%w]", err)
	}

	return firebaseApp, client, nil
}
