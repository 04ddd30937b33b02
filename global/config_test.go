package global

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	Conf = defaults()
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if Conf.Server.Addr != ":8080" || Conf.Server.WsPath != "/ws" {
		t.Fatalf("defaults lost: %+v", Conf.Server)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	Conf = defaults()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  addr: \":9090\"\njwt:\n  secret: from-file\n  ttl_hours: 48\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHATWAVE_JWT_SECRET", "from-env")

	if err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if Conf.Server.Addr != ":9090" {
		t.Fatalf("addr = %q, want :9090", Conf.Server.Addr)
	}
	if string(GetJwtSecret()) != "from-env" {
		t.Fatal("env override must beat the file")
	}
	if JwtTTL() != 48*time.Hour {
		t.Fatalf("ttl = %v, want 48h", JwtTTL())
	}
	// untouched sections keep their defaults
	if Conf.Ws.SendQueueSize != 256 {
		t.Fatalf("ws defaults lost: %+v", Conf.Ws)
	}
}

func TestLoadBadYaml(t *testing.T) {
	Conf = defaults()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Load(path); err == nil {
		t.Fatal("malformed yaml must error")
	}
}
