package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	defaultSourceTimeout  = 30 * time.Second
	defaultConfirmTimeout = 3 * time.Minute
	defaultPollInterval   = 2 * time.Second
	defaultPaceInterval   = time.Second

	googleSheetsCSVExport = "https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s"
)

var (
	ErrMissingRPCURL     = errors.New("RPC_URL is not set")
	ErrMissingCredential = errors.New("neither PRIVATE_KEY nor KEYSTORE_PATH is set")
)

type RPC struct {
	// URLs is the list of JSON-RPC endpoints, tried in order on failure.
	URLs    []string `json:"urls"`
	ChainID int64    `json:"chainId"`
}

type Wallet struct {
	PrivateKey       string `json:"-"`
	KeystorePath     string `json:"keystorePath"`
	KeystorePassword string `json:"-"`
}

type Source struct {
	URL      string        `json:"url"`
	SheetID  string        `json:"sheetId"`
	SheetGID string        `json:"sheetGid"`
	Timeout  time.Duration `json:"timeout"`
}

type Batch struct {
	ConfirmTimeout time.Duration `json:"confirmTimeout"`
	PollInterval   time.Duration `json:"pollInterval"`
	PaceInterval   time.Duration `json:"paceInterval"`
}

type Logger struct {
	Level              string `json:"level"`
	PrettyPrintConsole bool   `json:"prettyPrintConsole"`
}

type Config struct {
	RPC    RPC    `json:"rpc"`
	Wallet Wallet `json:"wallet"`
	Source Source `json:"source"`
	Batch  Batch  `json:"batch"`
	Logger Logger `json:"logger"`
}

// LoadDotEnv loads .env and .env.local from the working directory. Values
// already present in the process environment win over .env, .env.local
// overrides both.
func LoadDotEnv() {
	_ = gotenv.Load(".env")
	_ = gotenv.OverLoad(".env.local")
}

// DefaultConfigFromEnv returns the config assembled from the process
// environment, falling back to defaults.
func DefaultConfigFromEnv() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("CHAIN_ID", 0)
	v.SetDefault("SOURCE_TIMEOUT", defaultSourceTimeout)
	v.SetDefault("CONFIRM_TIMEOUT", defaultConfirmTimeout)
	v.SetDefault("POLL_INTERVAL", defaultPollInterval)
	v.SetDefault("PACE_INTERVAL", defaultPaceInterval)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)

	return Config{
		RPC: RPC{
			URLs:    splitList(v.GetString("RPC_URL")),
			ChainID: v.GetInt64("CHAIN_ID"),
		},
		Wallet: Wallet{
			PrivateKey:       strings.TrimSpace(v.GetString("PRIVATE_KEY")),
			KeystorePath:     strings.TrimSpace(v.GetString("KEYSTORE_PATH")),
			KeystorePassword: v.GetString("KEYSTORE_PASSWORD"),
		},
		Source: Source{
			URL:      strings.TrimSpace(v.GetString("SHEET_URL")),
			SheetID:  strings.TrimSpace(v.GetString("SHEET_ID")),
			SheetGID: strings.TrimSpace(v.GetString("SHEET_GID")),
			Timeout:  v.GetDuration("SOURCE_TIMEOUT"),
		},
		Batch: Batch{
			ConfirmTimeout: v.GetDuration("CONFIRM_TIMEOUT"),
			PollInterval:   v.GetDuration("POLL_INTERVAL"),
			PaceInterval:   v.GetDuration("PACE_INTERVAL"),
		},
		Logger: Logger{
			Level:              v.GetString("LOG_LEVEL"),
			PrettyPrintConsole: v.GetBool("LOG_PRETTY"),
		},
	}
}

// AddressURL returns the CSV location of the recipient list. An explicit
// SHEET_URL wins; otherwise the Google Sheets CSV export link is derived
// from SHEET_ID and SHEET_GID.
func (s Source) AddressURL() (string, error) {
	if s.URL != "" {
		return s.URL, nil
	}

	if s.SheetID == "" {
		return "", errors.New("neither SHEET_URL nor SHEET_ID is set")
	}

	gid := s.SheetGID
	if gid == "" {
		gid = "0"
	}

	return fmt.Sprintf(googleSheetsCSVExport, s.SheetID, gid), nil
}

// HasCredential reports whether a signing key source is configured.
func (w Wallet) HasCredential() bool {
	return w.PrivateKey != "" || w.KeystorePath != ""
}

// Validate checks the settings every network-facing command needs.
func (c Config) Validate() error {
	if len(c.RPC.URLs) == 0 {
		return ErrMissingRPCURL
	}

	if !c.Wallet.HasCredential() {
		return ErrMissingCredential
	}

	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
