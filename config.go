package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"smsgate/budgetsms"
)

// Duration lets time.Duration parse from the usual "30s" form in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the complete daemon configuration.
type Config struct {
	BudgetSMS struct {
		Username string   `yaml:"username"`
		UserID   string   `yaml:"userid"`
		Handle   string   `yaml:"handle"`
		URL      string   `yaml:",omitempty"` // gateway address override
		Timeout  Duration `yaml:",omitempty"` // per-request timeout
	} `yaml:"budgetsms"`
	SMSGate *SMSGate `yaml:"smsgate"`
	Listen  string   `yaml:",omitempty"` // HTTP interface address
	History string   `yaml:",omitempty"` // MySQL DSN of the send log
	Zabbix  struct {
		Server string `yaml:",omitempty"`
		Host   string `yaml:",omitempty"`
	} `yaml:",omitempty"`
	LogFile string `yaml:"logFile,omitempty"`

	server *http.Server // running HTTP interface
}

// ParseConfig parses the configuration and initializes the gate with
// its BudgetSMS client.
func ParseConfig(data []byte) (*Config, error) {
	config := new(Config)
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	b := &config.BudgetSMS
	if b.Username == "" || b.UserID == "" || b.Handle == "" {
		return nil, errors.New("budgetsms credentials are not complete")
	}
	if config.SMSGate == nil {
		config.SMSGate = new(SMSGate)
	}
	if config.Listen == "" {
		config.Listen = ":8080"
	}
	config.SMSGate.client = &budgetsms.Client{
		Username: b.Username,
		UserID:   b.UserID,
		Handle:   b.Handle,
		BaseURL:  b.URL,
		Timeout:  time.Duration(b.Timeout),
		Logger:   logrus.WithField("api", "budgetsms"),
	}
	return config, nil
}

// LoadConfig loads and parses the configuration file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}
