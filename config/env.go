package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// envPrefix is prepended to every env tag, so tags name only the setting.
const envPrefix = "FINLEARN_"

// loadFromEnv overlays environment variables onto cfg. Fields opt in with an
// env tag; nested section structs are walked so their tags are honored too.
func loadFromEnv(cfg *Config) error {
	return overlayEnv(reflect.ValueOf(cfg).Elem())
}

func overlayEnv(val reflect.Value) error {
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", val.Kind())
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if field.Kind() == reflect.Struct {
			if field.CanAddr() {
				if err := overlayEnv(field); err != nil {
					return err
				}
			}
			continue
		}

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			continue
		}
		raw := os.Getenv(envPrefix + tag)
		if raw == "" {
			continue
		}
		if err := setEnvField(field, fieldType, raw); err != nil {
			return fmt.Errorf("env %s%s: %w", envPrefix, tag, err)
		}
	}

	return nil
}

// setEnvField parses the raw env value into the field's type.
func setEnvField(field reflect.Value, fieldType reflect.StructField, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field %s is not settable", fieldType.Name)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// time.Duration is an int64 underneath but parses as "30s" etc.
		if fieldType.Type == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("invalid duration %q", raw)
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(n)

	case reflect.Slice:
		if fieldType.Type.Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", fieldType.Type.Elem().Kind())
		}
		parts := strings.Split(raw, ",")
		slice := reflect.MakeSlice(fieldType.Type, len(parts), len(parts))
		for i, part := range parts {
			slice.Index(i).SetString(strings.TrimSpace(part))
		}
		field.Set(slice)

	case reflect.Map:
		if fieldType.Type.Key().Kind() != reflect.String || fieldType.Type.Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported map type %s", fieldType.Type)
		}
		m := reflect.MakeMap(fieldType.Type)
		for _, pair := range strings.Split(raw, ",") {
			kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
			if len(kv) != 2 {
				return fmt.Errorf("invalid map entry %q", pair)
			}
			m.SetMapIndex(reflect.ValueOf(kv[0]), reflect.ValueOf(kv[1]))
		}
		field.Set(m)

	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}

	return nil
}
