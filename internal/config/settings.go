package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/spf13/viper"
)

// Defaults for the classification service.
const (
	DefaultModel        = "gpt-4-1106-preview"
	DefaultBaseURL      = "https://api.openai.com"
	DefaultTemperature  = 0.1
	MinTemperature      = 0.01
	MaxTemperature      = 1.0
	DefaultMaxTokens    = 150
	DefaultTimeout      = 60 * time.Second
	DefaultAPIKeyLength = 51
	DefaultVendor       = "Adidas"
)

// Settings is the explicit configuration handed to the classification path.
type Settings struct {
	APIKey         string
	Model          string
	BaseURL        string
	OverrideVendor string
	Delimiter      string
	Temperature    float64
	Timeout        time.Duration
	RetryDelay     time.Duration
	APIKeyLength   int
	MaxTokens      int
	MaxRetries     int
	Strict         bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.base_url", DefaultBaseURL)
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_tokens", DefaultMaxTokens)
	v.SetDefault("llm.timeout", DefaultTimeout)
	v.SetDefault("llm.api_key_length", DefaultAPIKeyLength)
	v.SetDefault("llm.max_retries", 1)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("prompt.override_vendor", DefaultVendor)
	v.SetDefault("dataset.delimiter", ",")
	v.SetDefault("classification.strict", false)
}

// FromViper reads Settings from v. The API key falls back to OPENAI_API_KEY.
func FromViper(v *viper.Viper) Settings {
	apiKey := v.GetString("llm.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return Settings{
		APIKey:         apiKey,
		APIKeyLength:   v.GetInt("llm.api_key_length"),
		Model:          v.GetString("llm.model"),
		BaseURL:        v.GetString("llm.base_url"),
		Temperature:    v.GetFloat64("llm.temperature"),
		MaxTokens:      v.GetInt("llm.max_tokens"),
		Timeout:        v.GetDuration("llm.timeout"),
		MaxRetries:     v.GetInt("llm.max_retries"),
		RetryDelay:     v.GetDuration("llm.retry_delay"),
		OverrideVendor: v.GetString("prompt.override_vendor"),
		Delimiter:      v.GetString("dataset.delimiter"),
		Strict:         v.GetBool("classification.strict"),
	}
}

// ValidateCredential checks the API key shape. The key is never checked
// against the service itself.
func (s Settings) ValidateCredential() error {
	if s.APIKey == "" {
		return fmt.Errorf("%w: no API key in config or OPENAI_API_KEY", common.ErrInvalidCredential)
	}
	if s.APIKeyLength > 0 && len(s.APIKey) != s.APIKeyLength {
		return fmt.Errorf("%w: expected %d characters, got %d",
			common.ErrInvalidCredential, s.APIKeyLength, len(s.APIKey))
	}
	return nil
}

// Validate checks the non-credential settings, dataset settings included.
func (s Settings) Validate() error {
	if s.Temperature < MinTemperature || s.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature %.2f outside [%.2f, %.1f]",
			common.ErrInvalidConfig, s.Temperature, MinTemperature, MaxTemperature)
	}
	if s.Model == "" {
		return fmt.Errorf("%w: model is required", common.ErrInvalidConfig)
	}
	if s.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", common.ErrInvalidConfig)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", common.ErrInvalidConfig)
	}
	return s.ValidateDataset()
}

// ValidateDataset checks only the settings used to read transaction files.
// Commands that never call the model validate with this alone.
func (s Settings) ValidateDataset() error {
	if len([]rune(s.Delimiter)) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", common.ErrInvalidConfig, s.Delimiter)
	}
	return nil
}
