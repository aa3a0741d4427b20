// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/pebble"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/trace"
)

const (
	DefaultFee             = 100_000_000
	DefaultIssuanceCeiling = 10_000
	DefaultSeriesName      = "Punk"
	DefaultHTTPAddress     = "127.0.0.1:9650"
	DefaultDataDir         = ".niftyvm"
)

type Creator struct {
	Address ed25519.PublicKey `json:"address" yaml:"address"`
	Share   uint8             `json:"share" yaml:"share"`
}

// Policy holds the deployment constants of a minting program.
type Policy struct {
	// Identity the program runs as.
	ProgramID ed25519.PublicKey `json:"programID" yaml:"programID"`
	// Only account allowed to hold the issuance counter.
	CounterAccount ed25519.PublicKey `json:"counterAccount" yaml:"counterAccount"`
	// Only account allowed to collect the mint fee.
	FeeDestination ed25519.PublicKey `json:"feeDestination" yaml:"feeDestination"`

	TokenProgram    ed25519.PublicKey `json:"tokenProgram" yaml:"tokenProgram"`
	MetadataProgram ed25519.PublicKey `json:"metadataProgram" yaml:"metadataProgram"`
	SystemProgram   ed25519.PublicKey `json:"systemProgram" yaml:"systemProgram"`
	RentSysvar      ed25519.PublicKey `json:"rentSysvar" yaml:"rentSysvar"`

	Fee uint64 `json:"fee" yaml:"fee"`
	// Highest serial that may be issued.
	IssuanceCeiling uint64 `json:"issuanceCeiling" yaml:"issuanceCeiling"`

	BaseURI              string    `json:"baseURI" yaml:"baseURI"`
	SeriesName           string    `json:"seriesName" yaml:"seriesName"`
	Symbol               string    `json:"symbol" yaml:"symbol"`
	SellerFeeBasisPoints uint16    `json:"sellerFeeBasisPoints" yaml:"sellerFeeBasisPoints"`
	Creators             []Creator `json:"creators" yaml:"creators"`

	// Lamports the payer funds each metadata record with.
	MetadataRentLamports uint64 `json:"metadataRentLamports" yaml:"metadataRentLamports"`
}

// Name is the display name of [serial].
func (p *Policy) Name(serial uint64) string {
	return p.SeriesName + " " + strconv.FormatUint(serial, 10)
}

// URI is the content address of [serial].
func (p *Policy) URI(serial uint64) string {
	return p.BaseURI + "/punk_" + strconv.FormatUint(serial, 10) + ".json"
}

// MetadataCreators returns the creators in the form the metadata program
// accepts, or nil when none are configured.
func (p *Policy) MetadataCreators() []programs.Creator {
	if len(p.Creators) == 0 {
		return nil
	}
	creators := make([]programs.Creator, len(p.Creators))
	for i, c := range p.Creators {
		creators[i] = programs.Creator{Address: c.Address, Share: c.Share}
	}
	return creators
}

// Validate makes sure every record the policy can produce is accepted by
// the metadata program, up to and including the ceiling. The system
// program id is all zeros and is not checked.
func (p *Policy) Validate() error {
	for name, id := range map[string]ed25519.PublicKey{
		"programID":       p.ProgramID,
		"counterAccount":  p.CounterAccount,
		"feeDestination":  p.FeeDestination,
		"tokenProgram":    p.TokenProgram,
		"metadataProgram": p.MetadataProgram,
		"rentSysvar":      p.RentSysvar,
	} {
		if id == ed25519.EmptyPublicKey {
			return fmt.Errorf("%w: %s", ErrMissingIdentity, name)
		}
	}
	if p.CounterAccount == p.FeeDestination || p.CounterAccount == p.ProgramID {
		return fmt.Errorf("%w: counter %s", ErrIdentityConflict, p.CounterAccount)
	}
	if p.FeeDestination == p.ProgramID {
		return fmt.Errorf("%w: fee destination %s", ErrIdentityConflict, p.FeeDestination)
	}
	if p.IssuanceCeiling == 0 {
		return fmt.Errorf("%w: issuance ceiling is zero", ErrInvalidPolicy)
	}
	if p.SeriesName == "" {
		return fmt.Errorf("%w: series name is empty", ErrInvalidPolicy)
	}
	if err := metadata.Validate(&programs.MetadataData{
		Name:                 p.Name(p.IssuanceCeiling),
		Symbol:               p.Symbol,
		URI:                  p.URI(p.IssuanceCeiling),
		SellerFeeBasisPoints: p.SellerFeeBasisPoints,
		Creators:             p.MetadataCreators(),
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	return nil
}

type Logging struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
	// When set, logs are also written to a rotating file in this
	// directory.
	Directory string `json:"directory" yaml:"directory"`
	MaxSize   int    `json:"maxSize" yaml:"maxSize"` // megabytes
	MaxAge    int    `json:"maxAge" yaml:"maxAge"`   // days
	MaxFiles  int    `json:"maxFiles" yaml:"maxFiles"`
	Compress  bool   `json:"compress" yaml:"compress"`
}

type HTTP struct {
	Address           string        `json:"address" yaml:"address"`
	AllowedOrigins    []string      `json:"allowedOrigins" yaml:"allowedOrigins"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

type Host struct {
	// Concurrency bounds how many invocations of a batch run at once.
	Concurrency  int `json:"concurrency" yaml:"concurrency"`
	MaxBatchSize int `json:"maxBatchSize" yaml:"maxBatchSize"`
}

type Config struct {
	DataDir string        `json:"dataDir" yaml:"dataDir"`
	Genesis string        `json:"genesis" yaml:"genesis"`
	Policy  Policy        `json:"policy" yaml:"policy"`
	Logging Logging       `json:"logging" yaml:"logging"`
	Trace   trace.Config  `json:"trace" yaml:"trace"`
	Pebble  pebble.Config `json:"pebble" yaml:"pebble"`
	Host    Host          `json:"host" yaml:"host"`
	HTTP    HTTP          `json:"http" yaml:"http"`
}

// Default returns a config with every optional value filled in. The
// program, counter and fee identities are left empty.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Policy: Policy{
			TokenProgram:    programs.TokenProgramID,
			MetadataProgram: programs.MetadataProgramID,
			SystemProgram:   programs.SystemProgramID,
			RentSysvar:      programs.RentSysvarID,
			Fee:             DefaultFee,
			IssuanceCeiling: DefaultIssuanceCeiling,
			SeriesName:      DefaultSeriesName,
		},
		Logging: Logging{
			Name:     "nifty",
			Level:    "info",
			MaxSize:  8,
			MaxAge:   7,
			MaxFiles: 4,
		},
		Trace:  trace.Config{Enabled: false, AppName: "nifty"},
		Pebble: pebble.NewDefaultConfig(),
		Host: Host{
			Concurrency:  runtime.NumCPU(),
			MaxBatchSize: 256,
		},
		HTTP: HTTP{
			Address:           DefaultHTTPAddress,
			AllowedOrigins:    []string{"*"},
			ReadHeaderTimeout: 30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
	}
}

// Load parses a json or yaml document over [Default].
func Load(b []byte) (*Config, error) {
	c := Default()
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return c, c.Policy.Validate()
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}
