package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/maddsua/consolelog"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var configLocations = []string{
	"./consolelog.yml",
	"./consolelog.yaml",
	"./consolelog.json",
	"./consolelog.toml",
}

func FindConfig(locations []string) (string, bool) {

	for _, val := range locations {

		stat, err := os.Stat(val)
		if err != nil {
			continue
		}

		if stat.Mode().IsRegular() {
			return val, true
		}
	}

	return "", false
}

func DefaultFileConfig() FileConfig {
	return FileConfig{
		ConsoleLog: consolelog.DefaultOptions(),
		Server: ServerConfig{
			Root: ".",
			Host: "localhost",
		},
	}
}

func LoadConfigFile(path string) (*FileConfig, error) {

	file, err := os.OpenFile(path, os.O_RDONLY, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %s", err.Error())
	}

	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get config file info: %s", err.Error())
	}

	if !info.Mode().IsRegular() {
		return nil, errors.New("failed to read config file: config file must be a regular file")
	}

	//	decoding over the defaults keeps them for omitted keys
	cfg := DefaultFileConfig()

	switch {
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %s", err.Error())
		}
	case strings.HasSuffix(path, ".json"):
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %s", err.Error())
		}
	case strings.HasSuffix(path, ".toml"):
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %s", err.Error())
		}
	default:
		return nil, errors.New("unsupported config file format")
	}

	if err := cfg.ConsoleLog.Valid(); err != nil {
		return nil, fmt.Errorf("error validating console_log config: %s", err.Error())
	}

	return &cfg, nil
}

type FileConfig struct {
	ConsoleLog consolelog.Options `yaml:"console_log" json:"console_log" toml:"console_log"`
	Server     ServerConfig       `yaml:"server" json:"server" toml:"server"`
}

type ServerConfig struct {
	//	Directory served as static files
	Root string `yaml:"root" json:"root" toml:"root"`
	Host string `yaml:"host" json:"host" toml:"host"`
	Port int    `yaml:"port" json:"port" toml:"port"`
}
