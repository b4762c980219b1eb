package config

import (
	"encoding/json"
	"os"
	"strings"
)

// FirebaseCredentials mirrors the service-account JSON fields, supplied one
// environment variable per field.
type FirebaseCredentials struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain,omitempty"`
}

func firebaseFromEnv() FirebaseCredentials {
	return FirebaseCredentials{
		Type:                    getEnvOrDefault("FIREBASE_TYPE", "service_account"),
		ProjectID:               getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
		PrivateKeyID:            getEnvOrDefault("FIREBASE_PRIVATE_KEY_ID", ""),
		PrivateKey:              unescapeKey(os.Getenv("FIREBASE_PRIVATE_KEY")),
		ClientEmail:             getEnvOrDefault("FIREBASE_CLIENT_EMAIL", ""),
		ClientID:                getEnvOrDefault("FIREBASE_CLIENT_ID", ""),
		AuthURI:                 getEnvOrDefault("FIREBASE_AUTH_URI", "https://accounts.google.com/o/oauth2/auth"),
		TokenURI:                getEnvOrDefault("FIREBASE_TOKEN_URI", "https://oauth2.googleapis.com/token"),
		AuthProviderX509CertURL: getEnvOrDefault("FIREBASE_AUTH_PROVIDER_X509_CERT_URL", ""),
		ClientX509CertURL:       getEnvOrDefault("FIREBASE_CLIENT_X509_CERT_URL", ""),
		UniverseDomain:          getEnvOrDefault("FIREBASE_UNIVERSE_DOMAIN", ""),
	}
}

// unescapeKey turns the literal "\n" sequences used in .env files into newlines.
func unescapeKey(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), `\n`, "\n")
}

// Enabled reports whether enough fields are present to initialise the SDK.
func (f FirebaseCredentials) Enabled() bool {
	return f.ProjectID != "" && f.PrivateKey != "" && f.ClientEmail != ""
}

// JSON renders the credentials in service-account file format.
func (f FirebaseCredentials) JSON() ([]byte, error) {
	return json.Marshal(f)
}
