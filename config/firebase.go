package config

import "google.golang.org/api/option"

// FirebaseClientOptions returns the credential options for the Firebase Admin SDK.
// With no credentials file configured the SDK falls back to application default credentials.
func FirebaseClientOptions() []option.ClientOption {
	if AppConfig.FirebaseCredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(AppConfig.FirebaseCredentialsFile)}
}
