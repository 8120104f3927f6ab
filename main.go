package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"smsgate/history"
	"smsgate/zabbix"
)

var (
	appName        = "SMSGate"      // application name
	version        = "1.0.0"        // version
	build          = ""             // git build number
	detailedLog    = false          // log debug information
	configFileName = "config.yaml"  // configuration file name
)

var config *Config // loaded and parsed configuration

func init() {
	fmt.Fprintf(os.Stderr, "### %s %s", appName, version)
	if build != "" {
		fmt.Fprintf(os.Stderr, " [#%s]", build)
	}
	fmt.Fprintln(os.Stderr)

	flag.StringVar(&configFileName, "config", configFileName, "configuration `fileName`")
	flag.BoolVar(&detailedLog, "debug", detailedLog, "log debug information")
}

func main() {
	flag.Parse()
	if detailedLog {
		logrus.SetLevel(logrus.DebugLevel)
	}
	for { // load and reload services until a stop signal arrives
		logrus.WithField("file", configFileName).Info("Loading config")
		var err error
		config, err = LoadConfig(configFileName)
		if err != nil {
			logrus.WithError(err).Fatal("Error loading config")
		}
		setupLog()
		if err = config.Start(); err != nil {
			logrus.WithError(err).Fatal("Error starting services")
		}
		signal := monitorSignals(os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
		config.Stop()
		if signal != syscall.SIGUSR1 {
			logrus.Info("The end")
			return
		}
		logrus.Info("Reload signal")
	}
}

// setupLog rebuilds the log hooks from the current configuration; on
// reload this drops the hook of a previous log file.
func setupLog() {
	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	if config.LogFile != "" {
		logrus.AddHook(lfshook.NewHook(config.LogFile, &logrus.TextFormatter{
			DisableColors: true,
		}))
	}
}

// Start connects the send log and launches the pollers and the HTTP
// interface.
func (c *Config) Start() error {
	gate := c.SMSGate
	if c.History != "" {
		db, err := history.Connect(c.History)
		if err != nil {
			return err
		}
		gate.history = db
	}
	if c.Zabbix.Server != "" {
		gate.zabbix = &zabbix.Sender{Server: c.Zabbix.Server, Host: c.Zabbix.Host}
	}
	gate.Start()
	c.server = &http.Server{Addr: c.Listen, Handler: gate.Handler()}
	go func() {
		logrus.WithField("addr", c.Listen).Info("HTTP interface started")
		err := c.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("HTTP interface stopped")
		}
	}()
	return nil
}

// Stop shuts down everything Start launched.
func (c *Config) Stop() {
	if c.server != nil {
		c.server.Close()
	}
	c.SMSGate.Stop()
}

// monitorSignals waits for one of the given signals and returns it.
func monitorSignals(signals ...os.Signal) os.Signal {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, signals...)
	return <-signalChan
}
