package agent

import "testing"

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GoogleAPIKey = "test-key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestConfigValidateMissingKey(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail without an API key")
	}
	ce, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if ce.Field != "GoogleAPIKey" {
		t.Errorf("Field = %q, want GoogleAPIKey", ce.Field)
	}
}

func TestConfigValidateNoCatalogSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GoogleAPIKey = "test-key"
	cfg.CatalogPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail without a catalog source")
	}
}

func TestToVoiceConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GoogleAPIKey = "test-key"
	cfg.TTSVoice = "Kore"
	cfg.Debug = true

	vc := cfg.ToVoiceConfig()
	if vc.GoogleAPIKey != "test-key" {
		t.Errorf("GoogleAPIKey = %q", vc.GoogleAPIKey)
	}
	if vc.TTSVoice != "Kore" {
		t.Errorf("TTSVoice = %q, want Kore", vc.TTSVoice)
	}
	if !vc.Debug {
		t.Error("Debug should carry over")
	}
}
