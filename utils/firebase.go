// utils/firebase.go
package utils

import (
	"context"
	"log"

	"eclinic/config"

	firebase "firebase.google.com/go/v4"
)

var FirebaseApp *firebase.App

// FirebaseInit initializes the Firebase App shared by Firestore and Messaging.
func FirebaseInit() *firebase.App {
	if FirebaseApp != nil {
		return FirebaseApp
	}
	ctx := context.Background()

	var fbConfig *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, config.FirebaseClientOptions()...)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}
	FirebaseApp = app
	return app
}
