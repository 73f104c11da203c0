package translations

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// TranslationHelperFunc returns the text for a key, falling back to the
// supplied default when no override is configured.
type TranslationHelperFunc func(key string, defaultValue string) string

func NullTranslationHelper(_ string, defaultValue string) string {
	return defaultValue
}

// TranslationHelper returns a helper that resolves tool descriptions and
// titles against HUBPUSH_* environment variables and an optional
// hubpush-config.json in the working directory, plus a dump function
// that writes every resolved key back out as JSON.
func TranslationHelper() (TranslationHelperFunc, func()) {
	translationKeyMap := map[string]string{}
	v := viper.New()

	v.SetEnvPrefix("hubpush")
	v.AutomaticEnv()

	v.SetConfigName("hubpush-config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// the override file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logrus.WithError(err).Warn("could not read override config")
		}
	}

	return func(key string, defaultValue string) string {
			key = strings.ToUpper(key)
			if value, ok := translationKeyMap[key]; ok {
				return value
			}
			if value := v.GetString(key); value != "" {
				translationKeyMap[key] = value
				return value
			}
			translationKeyMap[key] = defaultValue
			return defaultValue
		}, func() {
			if err := DumpTranslationKeyMap(translationKeyMap); err != nil {
				logrus.WithError(err).Fatal("could not dump translation key map")
			}
		}
}

// DumpTranslationKeyMap writes the resolved key map to hubpush-config.json
// so the defaults can be edited and fed back in.
func DumpTranslationKeyMap(m map[string]string) error {
	file, err := os.Create("hubpush-config.json")
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("error encoding map: %w", err)
	}
	return nil
}
