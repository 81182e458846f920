// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cygnusnet/cygnusd/infrastructure/logger"
	"github.com/cygnusnet/cygnusd/version"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "cygnusd.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "cygnusd.log"
	defaultErrLogFilename = "cygnusd_err.log"
	defaultDataDirname    = "data"
)

var (
	// DefaultAppDir is the default home directory for cygnusd.
	DefaultAppDir = defaultAppDir()

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
)

func defaultAppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".cygnusd")
}

// Flags defines the configuration options for cygnusd.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion       bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile        string   `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir            string   `short:"b" long:"appdir" description:"Directory to store data"`
	LogDir            string   `long:"logdir" description:"Directory to log output."`
	Listen            string   `long:"listen" description:"Interface/port to listen for connections (default port depends on the selected network)"`
	Connect           []string `long:"connect" description:"Connect to the given peer at startup. May be used multiple times."`
	DebugLevel        string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	UserAgentComments []string `long:"uacomment" description:"Comment to add to the user agent -- See BIP 14 for more information."`
	BlocksOnly        bool     `long:"blocksonly" description:"Do not accept transaction inventory from remote peers."`
	NetworkFlags
}

// Config defines the configuration options for cygnusd.
type Config struct {
	*Flags

	// DataDir is the directory the database lives in. It is derived from
	// AppDir and the selected network.
	DataDir string
}

// LogFile returns the path of the main log file.
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

// ErrLogFile returns the path of the error log file.
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, defaultErrLogFilename)
}

func defaultFlags() *Flags {
	return &Flags{
		AppDir:     DefaultAppDir,
		DebugLevel: defaultLogLevel,
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preFlags := *cfgFlags
	preParser := flags.NewParser(&preFlags, flags.None)
	_, _ = preParser.Parse() // errors surface in the second pass

	if preFlags.ShowVersion {
		fmt.Printf("cygnusd version %s\n", version.Version())
		os.Exit(0)
	}

	// Load additional config from file. A missing default config file is
	// fine; an explicitly requested one is not.
	configFile := defaultConfigFile
	explicitConfigFile := preFlags.ConfigFile != ""
	if explicitConfigFile {
		configFile = cleanAndExpandPath(preFlags.ConfigFile)
	}
	err := flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathError *os.PathError
		if !errors.As(err, &pathError) {
			return nil, errors.Wrapf(err, "error parsing config file %s", configFile)
		}
		if explicitConfigFile {
			return nil, errors.Wrapf(err, "config file %s cannot be read", configFile)
		}
	}

	// Parse command line options again, so they take precedence over the
	// config file.
	_, err = parser.Parse()
	if err != nil {
		return nil, err
	}

	err = cfgFlags.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}

	// Use a network-specific app directory, so different networks never
	// share state.
	cfg.AppDir = filepath.Join(cleanAndExpandPath(cfg.AppDir), cfg.NetParams().Name)
	cfg.DataDir = filepath.Join(cfg.AppDir, defaultDataDirname)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	} else {
		cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir), cfg.NetParams().Name)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":" + cfg.NetParams().DefaultPort
	}

	err = parseAndSetDebugLevels(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		return logger.SetLogLevels(debugLevel)
	}

	// Split the specified string into subsystem/level pairs while
	// detecting issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return errors.Errorf("the specified debug level contains an "+
				"invalid subsystem/level pair %s", logLevelPair)
		}
		fields := strings.Split(logLevelPair, "=")
		if len(fields) != 2 {
			return errors.Errorf("the specified debug level has an "+
				"invalid format %s", logLevelPair)
		}
		subsystemTag, logLevel := fields[0], fields[1]
		err := logger.SetLogLevel(subsystemTag, logLevel)
		if err != nil {
			return err
		}
	}
	return nil
}
