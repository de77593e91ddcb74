package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/yigit/schoolportal/internal/pkg/formbind"
)

// applyEnv overrides tagged fields of cfg, descending into nested sections,
// with the environment variables named by their `env` tags.
func applyEnv(cfg interface{}) error {
	section := reflect.Indirect(reflect.ValueOf(cfg))
	if section.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < section.NumField(); i++ {
		field, meta := section.Field(i), section.Type().Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		name := meta.Tag.Get("env")
		raw, ok := os.LookupEnv(name)
		if name == "" || !ok {
			continue
		}
		// A malformed value here is fatal, unlike a malformed form input.
		if err := formbind.SetScalar(field, raw); err != nil {
			return fmt.Errorf("invalid %s for %s: %w", name, meta.Name, err)
		}
	}
	return nil
}
