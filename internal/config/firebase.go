package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Variable status values reported by Firebase.Status.
const (
	StatusSet     = "set"
	StatusMissing = "missing"
)

// Firebase holds the client configuration of the hosted database project.
// Values are opaque; only their presence is checked.
type Firebase struct {
	APIKey            string `env:"API_KEY"`
	AuthDomain        string `env:"AUTH_DOMAIN"`
	ProjectID         string `env:"PROJECT_ID"`
	StorageBucket     string `env:"STORAGE_BUCKET"`
	MessagingSenderID string `env:"MESSAGING_SENDER_ID"`
	AppID             string `env:"APP_ID"`
}

// Variable is one Firebase setting and its environment variable name.
type Variable struct {
	Name  string
	Value string
}

// Set reports whether the variable has a value.
func (v Variable) Set() bool {
	return v.Value != ""
}

// Status returns StatusSet or StatusMissing.
func (v Variable) Status() string {
	if v.Set() {
		return StatusSet
	}
	return StatusMissing
}

// Variables lists the settings in a fixed order.
func (f Firebase) Variables() []Variable {
	return []Variable{
		{Name: "FIREBASE_API_KEY", Value: f.APIKey},
		{Name: "FIREBASE_AUTH_DOMAIN", Value: f.AuthDomain},
		{Name: "FIREBASE_PROJECT_ID", Value: f.ProjectID},
		{Name: "FIREBASE_STORAGE_BUCKET", Value: f.StorageBucket},
		{Name: "FIREBASE_MESSAGING_SENDER_ID", Value: f.MessagingSenderID},
		{Name: "FIREBASE_APP_ID", Value: f.AppID},
	}
}

// Status maps each variable name to StatusSet or StatusMissing.
func (f Firebase) Status() map[string]string {
	out := make(map[string]string, 6)
	for _, v := range f.Variables() {
		out[v.Name] = v.Status()
	}
	return out
}

// Missing returns the names of unset variables.
func (f Firebase) Missing() []string {
	var missing []string
	for _, v := range f.Variables() {
		if !v.Set() {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

// Complete reports whether every variable is set.
func (f Firebase) Complete() bool {
	return len(f.Missing()) == 0
}

// LoadFirebase reads only the FIREBASE_* variables.
func LoadFirebase() (Firebase, error) {
	var f Firebase
	if err := env.ParseWithOptions(&f, env.Options{Prefix: "FIREBASE_"}); err != nil {
		return Firebase{}, fmt.Errorf("failed to parse firebase config: %w", err)
	}
	return f, nil
}
