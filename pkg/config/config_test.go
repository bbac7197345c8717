package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("botToken", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("enviroment", "test")
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want test-token", config.BotToken)
	}
	if config.Port != "3001" {
		t.Errorf("Port = %v, want 3001", config.Port)
	}
	if config.Environment != "test" {
		t.Errorf("Environment = %v, want test", config.Environment)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want test-value", got)
	}
	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want default", got)
	}
}

func TestIsProd(t *testing.T) {
	for env, want := range map[string]bool{"prod": true, "dev": false, "test": false} {
		t.Setenv("enviroment", env)
		resetForTesting()
		config, _ := Load()
		if got := config.IsProd(); got != want {
			t.Errorf("IsProd() with enviroment=%q = %v, want %v", env, got, want)
		}
	}
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}
	if config2 := Get(); config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestIsSuperAdmin(t *testing.T) {
	t.Setenv("superAdminIds", "111, 222,333")
	resetForTesting()

	config, _ := Load()

	tests := []struct {
		userID string
		want   bool
	}{
		{"111", true},
		{"222", true},
		{"333", true},
		{"444", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := config.IsSuperAdmin(tt.userID); got != tt.want {
			t.Errorf("IsSuperAdmin(%q) = %v, want %v", tt.userID, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"single", "123", 1},
		{"multiple", "1,2,3", 3},
		{"spaces and empties", " 1 , ,2, ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.input); len(got) != tt.want {
				t.Errorf("splitList(%q) returned %d entries, want %d", tt.input, len(got), tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing token", Config{Environment: "dev"}, true},
		{"dev without admins", Config{BotToken: "x", Environment: "dev"}, false},
		{"prod without admins", Config{BotToken: "x", Environment: "prod"}, true},
		{"prod complete", Config{BotToken: "x", Environment: "prod", SuperAdminIDs: []string{"1"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{
		"botToken", "devGuildId", "mongodbUrl", "dbName",
		"MQTT_Host", "MQTT_Port", "PORT", "enviroment", "mutedRoleName",
	} {
		os.Unsetenv(key)
	}
	resetForTesting()

	config, _ := Load()

	defaults := []struct {
		field string
		got   string
		want  string
	}{
		{"MongoDBURL", config.MongoDBURL, "mongodb://localhost:27017"},
		{"DBName", config.DBName, "PancyGuard"},
		{"MutedRoleName", config.MutedRoleName, "Muted"},
		{"MQTTHost", config.MQTTHost, "localhost"},
		{"MQTTPort", config.MQTTPort, "1883"},
		{"Port", config.Port, "3000"},
		{"Environment", config.Environment, "dev"},
	}

	for _, tt := range defaults {
		if tt.got != tt.want {
			t.Errorf("%s default = %v, want %v", tt.field, tt.got, tt.want)
		}
	}
}
