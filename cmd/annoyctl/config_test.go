package main

import (
	"os"
	"testing"

	"github.com/kelseyhightower/envconfig"
)

func TestServeConfigEnvVars(t *testing.T) {
	os.Setenv("ANNOYCTL_ARTIFACT_PATH", "/tmp/custom.ann") //nolint:errcheck // test helper
	os.Setenv("ANNOYCTL_LISTEN_ADDR", "0.0.0.0:9999")      //nolint:errcheck // test helper
	os.Setenv("ANNOYCTL_METRIC", "dot_product")            //nolint:errcheck // test helper
	os.Setenv("ANNOYCTL_MLOCK", "true")                     //nolint:errcheck // test helper
	defer func() {
		_ = os.Unsetenv("ANNOYCTL_ARTIFACT_PATH")
		_ = os.Unsetenv("ANNOYCTL_LISTEN_ADDR")
		_ = os.Unsetenv("ANNOYCTL_METRIC")
		_ = os.Unsetenv("ANNOYCTL_MLOCK")
	}()

	var cfg ServeConfig
	if err := envconfig.Process("ANNOYCTL", &cfg); err != nil {
		t.Fatalf("envconfig.Process: %v", err)
	}
	if cfg.ArtifactPath != "/tmp/custom.ann" {
		t.Errorf("ArtifactPath = %q, want /tmp/custom.ann", cfg.ArtifactPath)
	}
	if cfg.ListenAddr != "0.0.0.0:9999" {
		t.Errorf("ListenAddr = %q, want 0.0.0.0:9999", cfg.ListenAddr)
	}
	if cfg.Metric != "dot_product" {
		t.Errorf("Metric = %q, want dot_product", cfg.Metric)
	}
	if !cfg.Mlock {
		t.Error("Mlock = false, want true")
	}
}

func TestServeConfigDefaults(t *testing.T) {
	_ = os.Unsetenv("ANNOYCTL_ARTIFACT_PATH")
	_ = os.Unsetenv("ANNOYCTL_LISTEN_ADDR")
	_ = os.Unsetenv("ANNOYCTL_METRIC")
	_ = os.Unsetenv("ANNOYCTL_MLOCK")

	var cfg ServeConfig
	if err := envconfig.Process("ANNOYCTL", &cfg); err != nil {
		t.Fatalf("envconfig.Process: %v", err)
	}
	if cfg.ArtifactPath != "out.ann" {
		t.Errorf("ArtifactPath default = %q, want out.ann", cfg.ArtifactPath)
	}
	if cfg.Metric != "euclidean" {
		t.Errorf("Metric default = %q, want euclidean", cfg.Metric)
	}
	if cfg.Mlock {
		t.Error("Mlock default = true, want false")
	}
}

func TestMetricFromFlagRejectsUnknown(t *testing.T) {
	if _, err := metricFromFlag("manhattan"); err == nil {
		t.Fatal("expected error for unsupported metric, got nil")
	}
}
