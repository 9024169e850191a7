package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaultsFromEnv(t *testing.T) {
	t.Setenv("SFT_CONFIG_PATH", "/etc/sft/custom.toml")
	t.Setenv("SFT_HOME", "/srv/sft")

	defaults, err := GetDefaults()
	if err != nil {
		t.Fatalf("GetDefaults: %v", err)
	}
	if defaults["config_path"] != "/etc/sft/custom.toml" {
		t.Errorf("config_path = %s", defaults["config_path"])
	}
	if defaults["base_dir"] != "/srv/sft" {
		t.Errorf("base_dir = %s", defaults["base_dir"])
	}
	if defaults["log_dir"] != "/srv/sft/log" {
		t.Errorf("log_dir = %s", defaults["log_dir"])
	}
}

func TestGetDefaultsFallsBackToHome(t *testing.T) {
	t.Setenv("SFT_CONFIG_PATH", "")
	t.Setenv("SFT_HOME", "")
	t.Setenv("HOME", "/home/tester")

	defaults, err := GetDefaults()
	if err != nil {
		t.Fatalf("GetDefaults: %v", err)
	}
	if defaults["config_path"] != filepath.Join("/home/tester", ".config", "sft.toml") {
		t.Errorf("config_path = %s", defaults["config_path"])
	}
	if defaults["base_dir"] != filepath.Join("/home/tester", ".local", "share", "sft") {
		t.Errorf("base_dir = %s", defaults["base_dir"])
	}
}
