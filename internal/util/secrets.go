package util

import (
	"encoding/json"
	"fmt"
	"os"
)

type Secrets struct {
	Db        DbSecrets     `json:"db"`
	Alpaca    AlpacaSecrets `json:"alpaca"`
	Scheduler SchedulerOpts `json:"scheduler"`
	JwtSecret string        `json:"jwtSecret"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

type AlpacaSecrets struct {
	ApiKey    string `json:"apiKey"`
	ApiSecret string `json:"apiSecret"`
	Endpoint  string `json:"endpoint"`
}

// SchedulerOpts overrides the reconciliation timing defaults. Zero values
// fall back to the defaults in the scheduler package.
type SchedulerOpts struct {
	ReconcileIntervalSeconds int `json:"reconcileIntervalSeconds"`
	GracePeriodSeconds       int `json:"gracePeriodSeconds"`
	GatewayTimeoutSeconds    int `json:"gatewayTimeoutSeconds"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "secrets.json"
	if os.Getenv("ALGOPILOT_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("ALGOPILOT_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, err
	}

	return &secrets, nil
}
